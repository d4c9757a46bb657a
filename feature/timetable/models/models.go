package models

import "time"

// Room is a lecture room. Identity across fetch cycles is the content hash.
type Room struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Hash string `gorm:"uniqueIndex;size:64" json:"hash"`
	Name string `json:"name"`
}

// Title is an academic title (e.g. "dr inż.").
type Title struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Hash string `gorm:"uniqueIndex;size:64" json:"hash"`
	Name string `json:"name"`
}

// Degree is a course of study.
type Degree struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Hash string `gorm:"uniqueIndex;size:64" json:"hash"`
	Name string `json:"name"`
}

// Speciality is a specialization within a degree.
type Speciality struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Hash string `gorm:"uniqueIndex;size:64" json:"hash"`
	Name string `json:"name"`
}

// Subject is a taught subject with its feed short name.
type Subject struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Hash      string `gorm:"uniqueIndex;size:64" json:"hash"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

// Teacher is a member of staff. Title points at the titles table and is
// nil when the feed carried a dangling reference.
type Teacher struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Hash     string `gorm:"uniqueIndex;size:64" json:"hash"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Initials string `json:"initials"`
	Title    *uint  `json:"title"`
}

// Schedule is a single timetable entry. The five reference columns point
// at their respective tables and are nil for unresolved feed references.
type Schedule struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Hash       string `gorm:"uniqueIndex;size:64" json:"hash"`
	Day        int    `json:"day"`
	Hour       int    `json:"hour"`
	Intervals  int    `json:"intervals"`
	WeekFlags  int    `json:"weekFlags"`
	Type       string `json:"type"`
	Group      int    `json:"group"`
	Semester   int    `json:"semester"`
	Teacher    *uint  `json:"teacher"`
	Room       *uint  `json:"room"`
	Subject    *uint  `json:"subject"`
	Degree     *uint  `json:"degree"`
	Speciality *uint  `json:"speciality"`
}

// Update is the immutable record of one synchronization cycle.
// Data lists the entity hashes present in the snapshot per collection,
// Diff the changes relative to the previous update. Updates form a
// hash-chained history ordered by Date; they are never modified once
// written.
type Update struct {
	ID   uint        `gorm:"primaryKey" json:"id"`
	Hash string      `gorm:"uniqueIndex;size:64" json:"hash"`
	Date time.Time   `gorm:"index" json:"date"`
	Data HashListing `gorm:"type:json" json:"data"`
	Diff DiffListing `gorm:"type:json" json:"diff"`
}

// All returns one zero value per model, in foreign key dependency order,
// for schema migration.
func All() []any {
	return []any{
		&Room{}, &Title{}, &Degree{}, &Speciality{}, &Subject{},
		&Teacher{}, &Schedule{}, &Update{},
	}
}
