package client

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/age"
)

type Client struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	FirstName    string    `gorm:"column:first_name;type:varchar(50);not null" json:"first_name"`
	MiddleName   string    `gorm:"column:middle_name;type:varchar(50)" json:"middle_name,omitempty"`
	LastName     string    `gorm:"column:last_name;type:varchar(50);not null" json:"last_name"`
	DateOfBirth  time.Time `gorm:"column:date_of_birth;type:date;not null" json:"date_of_birth"`
	Email        string    `gorm:"column:email;type:varchar(50)" json:"email,omitempty"`
	Phone        string    `gorm:"column:phone;type:varchar(20)" json:"phone,omitempty"`
	GuardianName string    `gorm:"column:guardian_name;type:varchar(100)" json:"guardian_name,omitempty"`
}

func (Client) TableName() string {
	return "intake.clients"
}

func (c *Client) FullName() string {
	parts := []string{c.FirstName, c.MiddleName, c.LastName}
	var b strings.Builder
	for _, p := range parts {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p)
	}
	return b.String()
}

// AgeAt returns the client's age in whole years at now.
func (c *Client) AgeAt(now time.Time) int {
	return age.Age(c.DateOfBirth, now)
}

// IsMinor reports whether a guardian has to sign on the client's behalf.
func (c *Client) IsMinor(now time.Time) bool {
	return c.AgeAt(now) < 18
}

type CreateClientCommand struct {
	FirstName    string
	MiddleName   string
	LastName     string
	DateOfBirth  time.Time
	Email        string
	Phone        string
	GuardianName string
}
