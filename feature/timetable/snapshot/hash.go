package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"schedule-api/feature/timetable/feed"
)

// contentHash returns the hex digest of the canonical JSON encoding of v.
// Struct fields marshal in declaration order, which fixes the encoding.
func contentHash(v any) string {
	b, _ := json.Marshal(v)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Content shapes: the hashed field set of each entity. Feed-local ids and
// the hash itself are excluded so identical content always hashes
// identically across cycles.

type namedContent struct {
	Name string `json:"name"`
}

type subjectContent struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

type teacherContent struct {
	Name     string  `json:"name"`
	Surname  string  `json:"surname"`
	Initials string  `json:"initials"`
	Title    *string `json:"title"`
}

type scheduleContent struct {
	Day        int     `json:"day"`
	Hour       int     `json:"hour"`
	Intervals  int     `json:"intervals"`
	WeekFlags  int     `json:"weekFlags"`
	Type       string  `json:"type"`
	Group      int     `json:"group"`
	Semester   int     `json:"semester"`
	Teacher    *string `json:"teacher"`
	Room       *string `json:"room"`
	Subject    *string `json:"subject"`
	Degree     *string `json:"degree"`
	Speciality *string `json:"speciality"`
}

// refMap maps feed-local ids to content hashes, per collection.
type refMap map[string]map[int]string

// resolve turns a feed-local id into a hash reference. A reference that
// does not resolve becomes nil, never an error: the feed is allowed to
// contain dangling references.
func (m refMap) resolve(collection string, feedID int) *string {
	hash, ok := m[collection][feedID]
	if !ok {
		return nil
	}
	return &hash
}

// Build assigns content hashes to every entity of the normalized
// document, resolves cross references from feed-local ids to hashes and
// computes the snapshot hash chained to lastHash.
//
// The two-phase ordering is load-bearing: teachers hash over their title
// reference and schedules over five references, so the independent
// collections must be hashed first.
func Build(doc *feed.Document, lastHash string) *Snapshot {
	snap := &Snapshot{LastHash: lastHash}
	refs := refMap{
		"rooms":        {},
		"titles":       {},
		"degrees":      {},
		"subjects":     {},
		"specialities": {},
		"teachers":     {},
	}

	// Phase 1: independent collections, any order.
	for _, r := range doc.Rooms {
		snap.Rooms = append(snap.Rooms, Room{
			Hash: contentHash(namedContent{r.Name}), FeedID: r.ID, Name: r.Name,
		})
	}
	sortByHash(snap.Rooms, func(e Room) string { return e.Hash })
	for _, e := range snap.Rooms {
		refs["rooms"][e.FeedID] = e.Hash
	}

	for _, t := range doc.Titles {
		snap.Titles = append(snap.Titles, Title{
			Hash: contentHash(namedContent{t.Name}), FeedID: t.ID, Name: t.Name,
		})
	}
	sortByHash(snap.Titles, func(e Title) string { return e.Hash })
	for _, e := range snap.Titles {
		refs["titles"][e.FeedID] = e.Hash
	}

	for _, d := range doc.Degrees {
		snap.Degrees = append(snap.Degrees, Degree{
			Hash: contentHash(namedContent{d.Name}), FeedID: d.ID, Name: d.Name,
		})
	}
	sortByHash(snap.Degrees, func(e Degree) string { return e.Hash })
	for _, e := range snap.Degrees {
		refs["degrees"][e.FeedID] = e.Hash
	}

	for _, s := range doc.Specialities {
		snap.Specialities = append(snap.Specialities, Speciality{
			Hash: contentHash(namedContent{s.Name}), FeedID: s.ID, Name: s.Name,
		})
	}
	sortByHash(snap.Specialities, func(e Speciality) string { return e.Hash })
	for _, e := range snap.Specialities {
		refs["specialities"][e.FeedID] = e.Hash
	}

	for _, s := range doc.Subjects {
		snap.Subjects = append(snap.Subjects, Subject{
			Hash:   contentHash(subjectContent{s.Name, s.ShortName}),
			FeedID: s.ID, Name: s.Name, ShortName: s.ShortName,
		})
	}
	sortByHash(snap.Subjects, func(e Subject) string { return e.Hash })
	for _, e := range snap.Subjects {
		refs["subjects"][e.FeedID] = e.Hash
	}

	// Phase 2: teachers reference titles.
	for _, t := range doc.Teachers {
		title := refs.resolve("titles", t.Title)
		snap.Teachers = append(snap.Teachers, Teacher{
			Hash:   contentHash(teacherContent{t.Name, t.Surname, t.Initials, title}),
			FeedID: t.ID, Name: t.Name, Surname: t.Surname, Initials: t.Initials,
			Title: title,
		})
	}
	sortByHash(snap.Teachers, func(e Teacher) string { return e.Hash })
	for _, e := range snap.Teachers {
		refs["teachers"][e.FeedID] = e.Hash
	}

	// Phase 3: schedules reference everything else.
	for _, s := range doc.Schedules {
		content := scheduleContent{
			Day: s.Day, Hour: s.Hour, Intervals: s.Intervals,
			WeekFlags: s.WeekFlags, Type: s.Type, Group: s.Group, Semester: s.Semester,
			Teacher:    refs.resolve("teachers", s.Teacher),
			Room:       refs.resolve("rooms", s.Room),
			Subject:    refs.resolve("subjects", s.Subject),
			Degree:     refs.resolve("degrees", s.Degree),
			Speciality: refs.resolve("specialities", s.Speciality),
		}
		snap.Schedules = append(snap.Schedules, Schedule{
			Hash: contentHash(content),
			Day:  content.Day, Hour: content.Hour, Intervals: content.Intervals,
			WeekFlags: content.WeekFlags, Type: content.Type, Group: content.Group,
			Semester: content.Semester, Teacher: content.Teacher, Room: content.Room,
			Subject: content.Subject, Degree: content.Degree, Speciality: content.Speciality,
		})
	}
	sortByHash(snap.Schedules, func(e Schedule) string { return e.Hash })

	snap.Hash = snapshotHash(snap)
	return snap
}

// snapshotHash digests the canonical per-collection hash listing plus the
// previous snapshot's hash, chaining snapshots into a tamper-evident
// sequence.
func snapshotHash(s *Snapshot) string {
	listing := s.HashListing()
	chained := struct {
		Rooms        []string `json:"rooms"`
		Titles       []string `json:"titles"`
		Degrees      []string `json:"degrees"`
		Subjects     []string `json:"subjects"`
		Specialities []string `json:"specialities"`
		Teachers     []string `json:"teachers"`
		Schedules    []string `json:"schedules"`
		LastHash     string   `json:"lastHash"`
	}{
		Rooms:        listing["rooms"],
		Titles:       listing["titles"],
		Degrees:      listing["degrees"],
		Subjects:     listing["subjects"],
		Specialities: listing["specialities"],
		Teachers:     listing["teachers"],
		Schedules:    listing["schedules"],
		LastHash:     s.LastHash,
	}
	return contentHash(chained)
}

func sortByHash[T any](items []T, hash func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		return hash(items[i]) < hash(items[j])
	})
}
