package recap

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/bmadison/classwrap/internal/deck"
)

// noData marks a stat the source could not support. The deck shows it as-is.
const noData = "—"

const earlyBirdWindow = 48 * time.Hour

// BuildRecord computes every recap stat for one student and flattens them
// into the record the deck builder consumes. now anchors the "past due"
// cutoff so results are reproducible.
func BuildRecord(req *Request, now time.Time) *deck.DataRecord {
	fields := map[string]string{
		"student_name": req.Name,
	}
	lists := map[string][]string{}
	src := &req.Data

	sectionTitle := make(map[string]string, len(src.Sections))
	for _, s := range src.Sections {
		sectionTitle[s.ID] = s.Title
	}
	assignmentByID := make(map[string]Assignment, len(src.Assignments))
	assignmentsPerSection := make(map[string]int)
	for _, a := range src.Assignments {
		assignmentByID[a.ID] = a
		assignmentsPerSection[a.SectionID]++
	}

	// Busiest month, by assignment due dates. Ties go to the earlier month.
	monthCounts := make(map[string]int)
	for _, a := range src.Assignments {
		if !a.Due.IsZero() {
			monthCounts[a.Due.Month().String()]++
		}
	}
	bestMonth, bestMonthN := "", 0
	for m := time.January; m <= time.December; m++ {
		if n := monthCounts[m.String()]; n > bestMonthN {
			bestMonth, bestMonthN = m.String(), n
		}
	}
	if bestMonthN > 0 {
		fields["busiest_month"] = bestMonth
		fields["busiest_month_count"] = strconv.Itoa(bestMonthN)
		fields["busiest_month_note"] = fmt.Sprintf("You had %d assignments due in %s!", bestMonthN, bestMonth)
	} else {
		fields["busiest_month"] = noData
		fields["busiest_month_count"] = "0"
		fields["busiest_month_note"] = "No assignments found."
	}

	// Course with the most assignments. Section order breaks ties.
	if id, n, ok := maxSection(src.Sections, assignmentsPerSection); ok {
		fields["top_course"] = sectionTitle[id]
		fields["top_course_count"] = strconv.Itoa(n)
		fields["top_course_note"] = fmt.Sprintf("%d assignments this year", n)
	} else {
		fields["top_course"] = noData
		fields["top_course_count"] = "0"
		fields["top_course_note"] = "No data."
	}

	// Class size champion, by section enrollment count.
	enrollmentsPerSection := make(map[string]int)
	for _, e := range src.Enrollments {
		enrollmentsPerSection[e.SectionID]++
	}
	if id, n, ok := maxSection(src.Sections, enrollmentsPerSection); ok && n > 0 {
		fields["largest_class_course"] = sectionTitle[id]
		fields["largest_class_size"] = strconv.Itoa(n)
		fields["largest_class_note"] = fmt.Sprintf("You shared this class with %d classmates", n)
	} else {
		fields["largest_class_course"] = noData
		fields["largest_class_size"] = "0"
		fields["largest_class_note"] = "No enrollments found."
	}

	// Submission timing: weekend vs weekday, and the after-10pm night owls.
	weekend, weekday, night := 0, 0, 0
	for _, sub := range src.Submissions {
		if sub.Submitted.IsZero() {
			continue
		}
		if wd := sub.Submitted.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend++
		} else {
			weekday++
		}
		if sub.Submitted.Hour() >= 22 {
			night++
		}
	}
	timed := weekend + weekday
	if timed == 0 {
		timed = 1
	}
	nightPct := percent1(night, timed)
	fields["weekend_count"] = strconv.Itoa(weekend)
	fields["weekday_count"] = strconv.Itoa(weekday)
	fields["night_owl_count"] = strconv.Itoa(night)
	fields["night_owl_pct"] = nightPct
	fields["night_owl_note"] = fmt.Sprintf("assignments submitted after 10pm... that's %s%% of assignments!", nightPct)

	// Deadline-relative stats: average lead time, early birds, late entries.
	var totalLead time.Duration
	dated, early, late := 0, 0, 0
	for _, sub := range src.Submissions {
		a, ok := assignmentByID[sub.AssignmentID]
		if !ok || a.Due.IsZero() || sub.Submitted.IsZero() {
			continue
		}
		lead := a.Due.Sub(sub.Submitted)
		totalLead += lead
		dated++
		if lead >= earlyBirdWindow {
			early++
		}
		if sub.Submitted.After(a.Due) || sub.Late {
			late++
		}
	}
	if dated > 0 {
		avg := totalLead / time.Duration(dated)
		text := formatDelta(avg)
		fields["procrastination"] = text
		switch hours := avg.Hours(); {
		case hours < 1:
			fields["procrastination_note"] = text + "... wow, you're really cutting it close!"
		case hours > 48:
			fields["procrastination_note"] = text + "... wow, you're really organized!"
		default:
			fields["procrastination_note"] = text + " before the deadline (pretty good!)"
		}
	} else {
		fields["procrastination"] = noData
		fields["procrastination_note"] = "No submissions with due dates."
	}

	totalSubs := len(src.Submissions)
	if totalSubs == 0 {
		totalSubs = 1
	}
	earlyPct := percent1(early, totalSubs)
	fields["early_bird_count"] = strconv.Itoa(early)
	fields["early_bird_pct"] = earlyPct
	fields["early_bird_note"] = fmt.Sprintf("assignments submitted more than 48 hours early... that's %s%% of assignments!", earlyPct)
	fields["late_count"] = strconv.Itoa(late)

	// Missing: past due with no submission at all.
	submittedIDs := make(map[string]bool, len(src.Submissions))
	for _, sub := range src.Submissions {
		submittedIDs[sub.AssignmentID] = true
	}
	missing := 0
	missingPerSection := make(map[string]int)
	for _, a := range src.Assignments {
		if !a.Due.IsZero() && a.Due.Before(now) && !submittedIDs[a.ID] {
			missing++
			missingPerSection[a.SectionID]++
		}
	}
	fields["missing_count"] = strconv.Itoa(missing)
	if id, n, ok := maxSection(src.Sections, missingPerSection); ok && n > 0 {
		inCourse := assignmentsPerSection[id]
		if inCourse == 0 {
			inCourse = 1
		}
		fields["most_missing_course"] = sectionTitle[id]
		fields["most_missing_note"] = fmt.Sprintf("%d missing assignments... that's %s%% of assignments!", n, percent1(n, inCourse))
	} else {
		fields["most_missing_course"] = noData
		fields["most_missing_note"] = "No missing assignments!"
	}

	// Classmates ranked by shared sections, top five.
	type classmate struct {
		name  string
		count int
	}
	byUser := make(map[string]*classmate)
	var order []string
	for _, e := range src.Enrollments {
		if e.UserID == req.UserID {
			continue
		}
		c, ok := byUser[e.UserID]
		if !ok {
			c = &classmate{name: e.Name}
			byUser[e.UserID] = c
			order = append(order, e.UserID)
		}
		c.count++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return byUser[order[i]].count > byUser[order[j]].count
	})
	if len(order) > 5 {
		order = order[:5]
	}
	for _, id := range order {
		c := byUser[id]
		lists["classmates"] = append(lists["classmates"],
			fmt.Sprintf("%s\t%d shared classes", c.name, c.count))
	}
	if len(order) > 0 {
		fields["has_classmates"] = "yes"
	}

	return &deck.DataRecord{Fields: fields, Lists: lists}
}

// maxSection returns the section with the highest count, in section order on
// ties. ok is false when there are no sections.
func maxSection(sections []Section, counts map[string]int) (id string, n int, ok bool) {
	for i, s := range sections {
		if c := counts[s.ID]; i == 0 || c > n {
			id, n = s.ID, c
		}
	}
	return id, n, len(sections) > 0
}

// percent1 formats a/b as a percentage with one decimal place.
func percent1(a, b int) string {
	return fmt.Sprintf("%.1f", float64(a)*100/float64(b))
}

// formatDelta renders a lead time at day, hour or minute granularity.
func formatDelta(d time.Duration) string {
	hours := d.Hours()
	if hours >= 48 {
		return fmt.Sprintf("%.1f days", hours/24)
	}
	if hours >= 1 {
		return fmt.Sprintf("%.0f hours", hours)
	}
	return fmt.Sprintf("%.0f minutes", d.Minutes())
}
