package dto

import (
	"TODO_WEB-APP/internal/flash"
	"TODO_WEB-APP/internal/models"
)

// PageData is what every HTML page is rendered with
type PageData struct {
	Notices       []flash.Notice
	User          *models.Identity
	Tasks         []models.Task
	GoogleEnabled bool
}
