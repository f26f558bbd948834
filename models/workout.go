package models

import (
	"time"
)

// Workout is an append-only log entry tied to a subscription
type Workout struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SubscriptionID string    `json:"subscriptionId" gorm:"type:uuid;not null"`
	ProgramDayID   *string   `json:"programDayId" gorm:"type:uuid"`
	PerformedAt    time.Time `json:"performedAt" gorm:"autoCreateTime"`
}

type WorkoutSet struct {
	ID           string   `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	WorkoutID    string   `json:"workoutId" gorm:"type:uuid;not null"`
	ExerciseName string   `json:"exerciseName" gorm:"not null"`
	Weight       *float64 `json:"weight"`
	Reps         *int     `json:"reps"`
	Rpe          *float64 `json:"rpe"`
	Notes        string   `json:"notes"`
}

// WorkoutCreate model for logging one set
// @Description model for appending a workout set to a subscription
type WorkoutCreate struct {
	SubscriptionID string   `json:"subscriptionId" binding:"required" example:"123e4567-e89b-12d3-a456-426614174000"`
	ProgramDayID   string   `json:"programDayId" example:"123e4567-e89b-12d3-a456-426614174001"`
	ExerciseName   string   `json:"exerciseName" binding:"required" example:"Back squat"`
	Weight         *float64 `json:"weight" example:"102.5"`
	Reps           *int     `json:"reps" example:"5"`
	Rpe            *float64 `json:"rpe" example:"8"`
	Notes          string   `json:"notes" example:"Belt on last set"`
}
