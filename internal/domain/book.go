package domain

import "time"

type Book struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Summary       string     `json:"summary"`
	Publisher     string     `json:"publisher"`
	YearPublished int        `json:"year_published"`
	Edition       int        `json:"edition"`
	CoverImage    string     `json:"cover_image"`
	IsActive      bool       `json:"is_active"`
	IsSuspended   bool       `json:"is_suspended"`
	Authors       []Author   `json:"authors,omitempty"`
	Categories    []Category `json:"categories,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type Author struct {
	ID           uint      `json:"id"`
	FirstName    string    `json:"first_name"`
	MiddleName   string    `json:"middle_name"`
	LastName     string    `json:"last_name"`
	Gender       string    `json:"gender"`
	EmailAddress string    `json:"email_address"`
	PhoneNumber  string    `json:"phone_number"`
	Nationality  string    `json:"nationality"`
	Summary      string    `json:"summary"`
	Books        []Book    `json:"books,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Category struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Books       []Book    `json:"books,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
