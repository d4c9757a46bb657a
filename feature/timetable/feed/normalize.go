package feed

import "schedule-api/core/utils"

// tableKeys maps feed table names to domain collection names.
var tableKeys = map[string]string{
	"tabela_sale":         "rooms",
	"tabela_nauczyciele":  "teachers",
	"tabela_tytuly":       "titles",
	"tabela_studia":       "degrees",
	"tabela_specjalnosci": "specialities",
	"tabela_przedmioty":   "subjects",
	"tabela_rozklad":      "schedules",
}

// fieldKeys maps feed column codes to domain field names.
var fieldKeys = map[string]string{
	"DZIEN":    "day",
	"GODZ":     "hour",
	"ILOSC":    "intervals",
	"TYG":      "weekFlags",
	"ID_NAUCZ": "teacher",
	"ID_SALA":  "room",
	"ID_PRZ":   "subject",
	"RODZ":     "type",
	"GRUPA":    "group",
	"ID_ST":    "degree",
	"SEM":      "semester",
	"ID_SPEC":  "speciality",
	"ID":       "id",
	"NAZWA":    "name",
	"IMIE":     "name",
	"NAZW":     "surname",
	"IM_SK":    "initials",
	"ID_TYT":   "title",
	"NAZ_SK":   "shortName",
}

// Normalize walks the generic feed tree, renames feed-specific keys to
// domain names and reshapes the rows into the seven typed collections.
// No hashing or reference resolution happens here; the one domain rule is
// the complement of a schedule's parity-week flags.
func Normalize(tree map[string]any) *Document {
	doc := &Document{}

	for feedKey, name := range tableKeys {
		for _, row := range tableRows(tree[feedKey]) {
			fields := renameKeys(row)

			switch name {
			case "rooms":
				doc.Rooms = append(doc.Rooms, Room{
					ID:   utils.ToInt(fields["id"]),
					Name: utils.ToString(fields["name"]),
				})
			case "titles":
				doc.Titles = append(doc.Titles, Title{
					ID:   utils.ToInt(fields["id"]),
					Name: utils.ToString(fields["name"]),
				})
			case "degrees":
				doc.Degrees = append(doc.Degrees, Degree{
					ID:   utils.ToInt(fields["id"]),
					Name: utils.ToString(fields["name"]),
				})
			case "specialities":
				doc.Specialities = append(doc.Specialities, Speciality{
					ID:   utils.ToInt(fields["id"]),
					Name: utils.ToString(fields["name"]),
				})
			case "subjects":
				doc.Subjects = append(doc.Subjects, Subject{
					ID:        utils.ToInt(fields["id"]),
					Name:      utils.ToString(fields["name"]),
					ShortName: utils.ToString(fields["shortName"]),
				})
			case "teachers":
				doc.Teachers = append(doc.Teachers, Teacher{
					ID:       utils.ToInt(fields["id"]),
					Name:     utils.ToString(fields["name"]),
					Surname:  utils.ToString(fields["surname"]),
					Initials: utils.ToString(fields["initials"]),
					Title:    utils.ToInt(fields["title"]),
				})
			case "schedules":
				doc.Schedules = append(doc.Schedules, Schedule{
					Day:       utils.ToInt(fields["day"]),
					Hour:      utils.ToInt(fields["hour"]),
					Intervals: utils.ToInt(fields["intervals"]),
					// Two-bit parity-week encoding is inverted upstream.
					WeekFlags:  3 - utils.ToInt(fields["weekFlags"]),
					Type:       utils.ToString(fields["type"]),
					Group:      utils.ToInt(fields["group"]),
					Semester:   utils.ToInt(fields["semester"]),
					Teacher:    utils.ToInt(fields["teacher"]),
					Room:       utils.ToInt(fields["room"]),
					Subject:    utils.ToInt(fields["subject"]),
					Degree:     utils.ToInt(fields["degree"]),
					Speciality: utils.ToInt(fields["speciality"]),
				})
			}
		}
	}

	return doc
}

// tableRows normalizes a feed table to a slice of row maps. The XML
// parser collapses a table with a single row into a bare map.
func tableRows(v any) []map[string]any {
	switch rows := v.(type) {
	case []any:
		out := make([]map[string]any, 0, len(rows))
		for _, r := range rows {
			if m, ok := r.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		return []map[string]any{rows}
	default:
		return nil
	}
}

// renameKeys applies the field mapping recursively. Arrays are mapped
// element-wise, unknown keys pass through under their original name.
func renameKeys(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		key := k
		if mapped, ok := fieldKeys[k]; ok {
			key = mapped
		}
		out[key] = renameValue(v)
	}
	return out
}

func renameValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return renameKeys(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = renameValue(item)
		}
		return out
	default:
		return v
	}
}
