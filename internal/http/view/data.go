package view

import "github.com/magabrotheeeer/fitplanhub-web/internal/models"

// Feature пункт списка преимуществ на главной странице.
type Feature struct {
	Icon        string
	Title       string
	Description string
}

// Option вариант выпадающего списка.
type Option struct {
	Value string
	Label string
}

// LandingData данные главной страницы.
type LandingData struct {
	Plans    []models.Plan
	Features []Feature
}

// LoginData данные страницы входа.
type LoginData struct {
	Heading string
	Action  string
	Form    models.LoginForm
	Error   string
}

// SignupUserData данные страницы регистрации пользователя.
type SignupUserData struct {
	Form    models.UserSignupForm
	Error   string
	Genders []Option
	Goals   []Option
}

// SignupTrainerData данные страницы регистрации тренера.
type SignupTrainerData struct {
	Form  models.TrainerSignupForm
	Error string
}

// PlanCard план в ленте с признаком подписки.
type PlanCard struct {
	Plan       models.Plan
	Subscribed bool
}

// FeedData данные ленты пользователя.
type FeedData struct {
	Base     string // путь страницы, /user/feed или /user/dashboard
	Tab      string
	Plans    []PlanCard
	Keyword  string
	Trainers []models.Trainer
}

// PlanFormInput значения формы плана в том виде, в каком их ввёл тренер.
type PlanFormInput struct {
	Title       string
	Description string
	Price       string
	Duration    string
}

// PlanModal состояние модального окна создания/редактирования плана.
type PlanModal struct {
	Editing bool
	PlanID  int64
	Form    PlanFormInput
	Error   string
}

// TrainerDashboardData данные кабинета тренера.
type TrainerDashboardData struct {
	Plans []models.Plan
	Modal *PlanModal
}

// PlanDeleteData данные страницы подтверждения удаления.
type PlanDeleteData struct {
	PlanID int64
	Error  string
}

// PlanDetailsData данные страницы плана.
type PlanDetailsData struct {
	Detail models.PlanDetail
	Error  string
	Back   string
}
