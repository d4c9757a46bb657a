package snapshot

// Collections lists the seven entity collections in the fixed order used
// for diffing and for the snapshot hash.
var Collections = []string{
	"rooms", "titles", "degrees", "subjects", "specialities", "teachers", "schedules",
}

// Hashed entities carry a content hash as identity and reference other
// entities by hash. A nil reference is a dangling feed reference that
// could not be resolved inside the snapshot.

// Room is a hashed room.
type Room struct {
	Hash   string
	FeedID int
	Name   string
}

// Title is a hashed academic title.
type Title struct {
	Hash   string
	FeedID int
	Name   string
}

// Degree is a hashed degree.
type Degree struct {
	Hash   string
	FeedID int
	Name   string
}

// Speciality is a hashed speciality.
type Speciality struct {
	Hash   string
	FeedID int
	Name   string
}

// Subject is a hashed subject.
type Subject struct {
	Hash      string
	FeedID    int
	Name      string
	ShortName string
}

// Teacher is a hashed teacher. Title holds the referenced title's content
// hash, nil when unresolved.
type Teacher struct {
	Hash     string
	FeedID   int
	Name     string
	Surname  string
	Initials string
	Title    *string
}

// Schedule is a hashed timetable entry with hash references.
type Schedule struct {
	Hash       string
	Day        int
	Hour       int
	Intervals  int
	WeekFlags  int
	Type       string
	Group      int
	Semester   int
	Teacher    *string
	Room       *string
	Subject    *string
	Degree     *string
	Speciality *string
}

// Snapshot is one fetch cycle's fully normalized and hashed view of all
// entities. Hash chains to the previous snapshot via LastHash.
type Snapshot struct {
	Rooms        []Room
	Titles       []Title
	Degrees      []Degree
	Specialities []Speciality
	Subjects     []Subject
	Teachers     []Teacher
	Schedules    []Schedule

	LastHash string
	Hash     string
}

// HashListing returns the per-collection ordered entity hashes, the shape
// persisted in an update's data field.
func (s *Snapshot) HashListing() map[string][]string {
	listing := map[string][]string{
		"rooms":        make([]string, len(s.Rooms)),
		"titles":       make([]string, len(s.Titles)),
		"degrees":      make([]string, len(s.Degrees)),
		"subjects":     make([]string, len(s.Subjects)),
		"specialities": make([]string, len(s.Specialities)),
		"teachers":     make([]string, len(s.Teachers)),
		"schedules":    make([]string, len(s.Schedules)),
	}
	for i, e := range s.Rooms {
		listing["rooms"][i] = e.Hash
	}
	for i, e := range s.Titles {
		listing["titles"][i] = e.Hash
	}
	for i, e := range s.Degrees {
		listing["degrees"][i] = e.Hash
	}
	for i, e := range s.Subjects {
		listing["subjects"][i] = e.Hash
	}
	for i, e := range s.Specialities {
		listing["specialities"][i] = e.Hash
	}
	for i, e := range s.Teachers {
		listing["teachers"][i] = e.Hash
	}
	for i, e := range s.Schedules {
		listing["schedules"][i] = e.Hash
	}
	return listing
}
