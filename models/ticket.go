// models/ticket.go - Tickets, prizes and draws
package models

import (
	"time"

	"winup/game"
)

// Ticket is one raffle entry. Immutable once created except IsWinner,
// which only the draw extraction sets.
type Ticket struct {
	ID         uint              `json:"id" gorm:"primaryKey"`
	UUID       string            `json:"uuid" gorm:"uniqueIndex;size:36;not null"`
	UniqueCode string            `json:"unique_code" gorm:"size:16;not null;index"`
	UserID     uint              `json:"user_id" gorm:"not null;index"`
	User       *User             `json:"user,omitempty" gorm:"foreignKey:UserID"`
	DrawID     uint              `json:"draw_id" gorm:"not null;index"`
	PrizeID    uint              `json:"prize_id" gorm:"not null;index"`
	Source     game.TicketSource `json:"source" gorm:"size:20;not null"`
	Number     int               `json:"number" gorm:"not null"`
	IsWinner   bool              `json:"is_winner" gorm:"default:false"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Prize is something users accumulate ad views toward. When CurrentAds
// reaches GoalAds the draw countdown starts; after extraction the
// counter resets for the next round.
type Prize struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:100"`
	Description string    `json:"description" gorm:"type:text"`
	ImageURL    string    `json:"image_url" gorm:"size:255"`
	CurrentAds  int       `json:"current_ads" gorm:"default:0"`
	GoalAds     int       `json:"goal_ads" gorm:"not null"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Draws []Draw `json:"draws,omitempty" gorm:"foreignKey:PrizeID"`
}

// Draw statuses. A draw transitions scheduled -> extracting ->
// completed exactly once; cancelled is terminal.
const (
	DrawStatusScheduled  = "scheduled"
	DrawStatusExtracting = "extracting"
	DrawStatusCompleted  = "completed"
	DrawStatusCancelled  = "cancelled"
)

type Draw struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	UUID            string     `json:"uuid" gorm:"uniqueIndex;size:36;not null"`
	PrizeID         uint       `json:"prize_id" gorm:"not null;index"`
	Prize           *Prize     `json:"prize,omitempty" gorm:"foreignKey:PrizeID"`
	ScheduledAt     time.Time  `json:"scheduled_at" gorm:"index"`
	Status          string     `json:"status" gorm:"default:'scheduled';size:20;index"`
	WinningTicketID *uint      `json:"winning_ticket_id,omitempty"`
	WinnerID        *uint      `json:"winner_id,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`

	Tickets []Ticket `json:"tickets,omitempty" gorm:"foreignKey:DrawID"`
}

func (Ticket) TableName() string {
	return "tickets"
}

func (Prize) TableName() string {
	return "prizes"
}

func (Draw) TableName() string {
	return "draws"
}
