package dto

import (
	"net/http"
	"strings"
)

// SignupForm is the payload of POST /signup
type SignupForm struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
	Confirm  string `form:"confirm"`
}

// LoginForm is the payload of POST /login
type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// TaskForm is the payload of POST /add
type TaskForm struct {
	Task string `form:"task"`
}

// ParseSignupForm reads and trims the signup fields
func ParseSignupForm(r *http.Request) SignupForm {
	return SignupForm{
		Name:     formValue(r, "name"),
		Email:    formValue(r, "email"),
		Password: formValue(r, "password"),
		Confirm:  formValue(r, "confirm"),
	}
}

// ParseLoginForm reads and trims the login fields
func ParseLoginForm(r *http.Request) LoginForm {
	return LoginForm{
		Email:    formValue(r, "email"),
		Password: formValue(r, "password"),
	}
}

// ParseTaskForm reads and trims the task text
func ParseTaskForm(r *http.Request) TaskForm {
	return TaskForm{Task: formValue(r, "task")}
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}
