package models

// LoginForm форма входа пользователя или тренера.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserSignupForm форма регистрации пользователя.
type UserSignupForm struct {
	FullName    string  `json:"fullName" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=6"`
	Age         int     `json:"age" validate:"required,gte=13,lte=120"`
	Gender      string  `json:"gender" validate:"required"`
	Height      float64 `json:"height" validate:"required,gte=50,lte=300"`
	Weight      float64 `json:"weight" validate:"required,gte=20,lte=500"`
	FitnessGoal string  `json:"fitnessGoal" validate:"required"`
}

// TrainerSignupForm форма регистрации тренера.
type TrainerSignupForm struct {
	FullName          string `json:"fullName" validate:"required"`
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,min=6"`
	YearsOfExperience int    `json:"yearsOfExperience" validate:"gte=0,lte=50"`
	Specializations   string `json:"specializations" validate:"required"`
	Bio               string `json:"bio"`
}

// PlanForm форма создания и редактирования плана.
// Price и Duration уже приведены к числам.
type PlanForm struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Duration    int     `json:"duration" validate:"gte=1"`
}
