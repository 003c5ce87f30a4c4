package domain

import "time"

// Pill represents a single normalized search result. It is never persisted;
// it lives only for the duration of a search.
type Pill struct {
	Name     string
	Labeler  string
	Imprint  string
	ImageURL string
}

// Bookmark is a user-saved reference to a drug record.
// Duplicates are representable: the store enforces no uniqueness.
type Bookmark struct {
	ID       int64
	DrugName string
	Labeler  string
	Imprint  string
}

// Reminder is a one-shot prompt to take a medication. Each reminder is
// paired with exactly one scheduled notification at creation time.
type Reminder struct {
	ID           int64
	DrugName     string
	Shape        string
	Instructions string
	ShapeImage   string
	Time         string
	Taken        bool
	TakenDate    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Prescription is a saved pair of captured prescription images with a title.
type Prescription struct {
	ID          int64
	Title       string
	Description string
	FrontImage  string
	BackImage   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DrugDetails is the structured detail record returned for a single drug.
type DrugDetails struct {
	Name             string
	BrandName        string
	GenericName      string
	NDC              string
	Imprint          string
	Manufacturer     string
	Website          string
	ProductType      string
	Direction        string
	OtherInformation string
	Warnings         string
}
