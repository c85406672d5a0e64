package models

// Plan фитнес-план тренера в том виде, в каком его отдаёт бэкенд.
type Plan struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"` // дни
	TrainerID   int64   `json:"trainerId,omitempty"`
	TrainerName string  `json:"trainerName"`
	CreatedAt   string  `json:"createdAt,omitempty"`
}

// PlanAccess вариант детального представления плана.
type PlanAccess int

const (
	// PlanPreview: пользователь не подписан, описание скрыто.
	PlanPreview PlanAccess = iota
	// PlanFullDetail: пользователь подписан, доступно всё.
	PlanFullDetail
)

func (a PlanAccess) String() string {
	if a == PlanFullDetail {
		return "full"
	}
	return "preview"
}

// PlanDetail результат запроса деталей плана.
type PlanDetail struct {
	Access PlanAccess
	Plan   Plan
}

// Subscribed сообщает, открыт ли пользователю полный план.
func (d PlanDetail) Subscribed() bool {
	return d.Access == PlanFullDetail
}
