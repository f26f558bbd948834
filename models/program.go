package models

import (
	"time"
)

// Program is a creator's training plan, made of ordered days
type Program struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatorID   string    `json:"creatorId" gorm:"type:uuid;not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	IsPublished bool      `json:"isPublished" gorm:"default:true"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Days []ProgramDay `json:"days,omitempty" gorm:"foreignKey:ProgramID"`
}

// ProgramDay ordering is 1-indexed and contiguous within a program
type ProgramDay struct {
	ID        string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProgramID string `json:"programId" gorm:"type:uuid;not null"`
	DayNumber int    `json:"dayNumber" gorm:"not null"`
	Title     string `json:"title"`

	Exercises []ProgramExercise `json:"exercises,omitempty" gorm:"foreignKey:ProgramDayID"`
}

// ProgramExercise position is zero-based within a day
type ProgramExercise struct {
	ID           string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProgramDayID string `json:"programDayId" gorm:"type:uuid;not null"`
	Name         string `json:"name" gorm:"not null"`
	Instructions string `json:"instructions"`
	Position     int    `json:"position" gorm:"not null;default:0"`
}

// ProgramDayCreate model for one day inside a program creation payload
type ProgramDayCreate struct {
	Title     string   `json:"title" example:"Push day"`
	Exercises []string `json:"exercises" example:"Bench press"`
}

// ProgramCreate model for creating a program with its days in one batch
type ProgramCreate struct {
	Title       string             `json:"title" binding:"required,min=2" example:"12-week strength block"`
	Description string             `json:"description" example:"Linear progression, 3 days a week"`
	Days        []ProgramDayCreate `json:"days" binding:"required,min=1"`
}
