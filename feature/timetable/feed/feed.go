package feed

// Raw records carry the feed-local integer identifiers the upstream
// document uses for cross references. They only exist inside one fetch
// cycle; the snapshot package replaces them with content hashes.

// Room is a raw room row.
type Room struct {
	ID   int
	Name string
}

// Title is a raw academic title row.
type Title struct {
	ID   int
	Name string
}

// Degree is a raw degree row.
type Degree struct {
	ID   int
	Name string
}

// Speciality is a raw speciality row.
type Speciality struct {
	ID   int
	Name string
}

// Subject is a raw subject row.
type Subject struct {
	ID        int
	Name      string
	ShortName string
}

// Teacher is a raw teacher row. Title is a feed-local Title id.
type Teacher struct {
	ID       int
	Name     string
	Surname  string
	Initials string
	Title    int
}

// Schedule is a raw timetable row. The five reference fields are
// feed-local ids into their respective tables.
type Schedule struct {
	Day        int
	Hour       int
	Intervals  int
	WeekFlags  int
	Type       string
	Group      int
	Semester   int
	Teacher    int
	Room       int
	Subject    int
	Degree     int
	Speciality int
}

// Document is the normalized feed: seven typed collections, still keyed
// by feed-local ids, in feed order.
type Document struct {
	Rooms        []Room
	Titles       []Title
	Degrees      []Degree
	Specialities []Speciality
	Subjects     []Subject
	Teachers     []Teacher
	Schedules    []Schedule
}
