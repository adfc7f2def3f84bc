package domain

import (
	"sort"
	"strings"
	"time"
)

const (
	guestDisplayName = "ゲスト"
	untitledJob      = "求人未指定"
)

// ProfileLookup resolves profiles by id or normalized email.
type ProfileLookup struct {
	byID    map[string]Profile
	byEmail map[string]Profile
}

// NewProfileLookup indexes profiles. When two profiles share an email the
// first one wins.
func NewProfileLookup(profiles []Profile) ProfileLookup {
	l := ProfileLookup{
		byID:    make(map[string]Profile, len(profiles)),
		byEmail: make(map[string]Profile, len(profiles)),
	}
	for _, p := range profiles {
		l.byID[p.ID] = p
		if email := NormalizeEmail(deref(p.Email)); email != "" {
			if _, taken := l.byEmail[email]; !taken {
				l.byEmail[email] = p
			}
		}
	}
	return l
}

func (l ProfileLookup) find(accountID, email string) (Profile, bool) {
	if accountID != "" {
		if p, ok := l.byID[accountID]; ok {
			return p, true
		}
	}
	if normalized := NormalizeEmail(email); normalized != "" {
		if p, ok := l.byEmail[normalized]; ok {
			return p, true
		}
	}
	return Profile{}, false
}

// AggregateInput carries the three activity streams. Each stream must be
// ordered newest first (see SortedDesc). The "latest" status fields and the
// meeting URL are overwritten by every row folded, so they follow the stream
// order and reflect the last row processed.
type AggregateInput struct {
	Clicks        []ClickRow
	Applications  []ApplicationRow
	Consultations []ConsultationRow
	Profiles      ProfileLookup
	Now           time.Time
}

type leadBuilder struct {
	lead     *Lead
	jobAt    time.Time
	hasJobAt bool
}

type aggregator struct {
	in    AggregateInput
	order []string
	leads map[string]*leadBuilder
}

// AggregateLeads folds the activity streams into leads, newest activity first.
func AggregateLeads(in AggregateInput) []Lead {
	a := &aggregator{in: in, leads: make(map[string]*leadBuilder)}

	for _, row := range in.Clicks {
		a.foldClick(row)
	}
	for _, row := range in.Applications {
		a.foldApplication(row)
	}
	for _, row := range in.Consultations {
		a.foldConsultation(row)
	}

	return a.finish()
}

func (a *aggregator) getOrCreate(accountID, email, fallback string) *leadBuilder {
	key := ResolveIdentity(accountID, email, fallback)
	if b, ok := a.leads[key]; ok {
		return b
	}

	lead := &Lead{ID: key, AccountType: AccountGuest, DisplayName: guestDisplayName, Events: []LeadEvent{}}
	if p, ok := a.in.Profiles.find(strings.TrimSpace(accountID), email); ok {
		seedFromProfile(lead, p, a.in.Now)
	} else if id := strings.TrimSpace(accountID); id != "" {
		lead.UserID = &id
	}
	if lead.Email == nil {
		if normalized := NormalizeEmail(email); normalized != "" {
			lead.Email = &normalized
		}
	}

	b := &leadBuilder{lead: lead}
	a.leads[key] = b
	a.order = append(a.order, key)
	return b
}

func seedFromProfile(lead *Lead, p Profile, now time.Time) {
	id := p.ID
	lead.UserID = &id
	lead.AccountType = AccountRegistered
	lead.Email = p.Email
	lead.Phone = p.PhoneNumber
	lead.Prefecture = p.Prefecture
	lead.Age = AgeAt(p.BirthDate, now)

	name := strings.TrimSpace(strings.TrimSpace(deref(p.LastName)) + " " + strings.TrimSpace(deref(p.FirstName)))
	if name != "" {
		lead.DisplayName = name
	}
}

func (a *aggregator) foldClick(row ClickRow) {
	b := a.getOrCreate(deref(row.UserID), "", "click:"+row.ID)

	kind := EventApplyClick
	status := "応募クリック"
	if row.ClickType == ClickConsult {
		kind = EventConsultClick
		status = "相談クリック"
		b.lead.ConsultClicks++
	} else {
		b.lead.ApplyClicks++
	}

	b.noteJob(row.Job, row.ClickedAt)
	b.lead.Events = append(b.lead.Events, LeadEvent{
		ID:     string(kind) + "-" + row.ID,
		Kind:   kind,
		At:     row.ClickedAt,
		Status: status,
		Title:  jobTitle(row.Job),
	})
}

func (a *aggregator) foldApplication(row ApplicationRow) {
	b := a.getOrCreate(deref(row.UserID), "", "application:"+row.ID)
	b.lead.Applications++

	status := row.Status
	b.lead.LatestApplicationStatus = &status

	b.noteJob(row.Job, row.CreatedAt)
	b.lead.Events = append(b.lead.Events, LeadEvent{
		ID:     string(EventApplication) + "-" + row.ID,
		Kind:   EventApplication,
		At:     row.CreatedAt,
		Status: "応募: " + row.Status,
		Title:  jobTitle(row.Job),
		Note:   nonBlank(row.AdminMemo),
	})
}

func (a *aggregator) foldConsultation(row ConsultationRow) {
	b := a.getOrCreate(deref(row.UserID), deref(row.AttendeeEmail), "consultation:"+row.ID)
	lead := b.lead
	lead.Consultations++

	status := row.Status
	lead.LatestConsultationStatus = &status

	if row.StartsAt != nil && row.StartsAt.After(a.in.Now) {
		if lead.NextConsultationAt == nil || row.StartsAt.Before(*lead.NextConsultationAt) {
			at := *row.StartsAt
			lead.NextConsultationAt = &at
		}
	}

	if url := nonBlank(row.MeetingURL); url != nil {
		lead.MeetingURL = url
	}

	if lead.AccountType == AccountGuest {
		if lead.DisplayName == guestDisplayName {
			if name := nonBlank(row.AttendeeName); name != nil {
				lead.DisplayName = *name
			}
		}
		if lead.Phone == nil {
			lead.Phone = nonBlank(row.AttendeePhone)
		}
	}

	b.noteJob(row.Job, row.CreatedAt)
	lead.Events = append(lead.Events, LeadEvent{
		ID:     string(EventConsultation) + "-" + row.ID,
		Kind:   EventConsultation,
		At:     row.CreatedAt,
		Status: "相談: " + row.Status,
		Title:  jobTitle(row.Job),
		Note:   nonBlank(row.AdminNote),
	})
}

// noteJob keeps the most recently active job on the lead.
func (b *leadBuilder) noteJob(job *JobRef, at time.Time) {
	if job == nil {
		return
	}
	if b.hasJobAt && !at.After(b.jobAt) {
		return
	}
	title := job.Title
	b.lead.JobTitle = &title
	b.lead.JobType = job.Type
	b.jobAt = at
	b.hasJobAt = true
}

func (a *aggregator) finish() []Lead {
	out := make([]Lead, 0, len(a.order))
	for _, key := range a.order {
		lead := a.leads[key].lead
		sort.SliceStable(lead.Events, func(i, j int) bool {
			return lead.Events[i].At.After(lead.Events[j].At)
		})
		if len(lead.Events) > MaxLeadEvents {
			lead.Events = lead.Events[:MaxLeadEvents]
		}
		out = append(out, *lead)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return latestEventUnix(out[i]) > latestEventUnix(out[j])
	})
	return out
}

// latestEventUnix expects events already sorted; no events sorts as epoch 0.
func latestEventUnix(l Lead) int64 {
	if len(l.Events) == 0 {
		return 0
	}
	return l.Events[0].At.UnixMilli()
}

// AgeAt returns full years between birth and now, or nil without a birth date.
func AgeAt(birth *time.Time, now time.Time) *int {
	if birth == nil || birth.IsZero() {
		return nil
	}
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	if years < 0 {
		return nil
	}
	return &years
}

// SortedDesc reports whether rows are ordered newest first by at.
func SortedDesc[T any](rows []T, at func(T) time.Time) bool {
	for i := 1; i < len(rows); i++ {
		if at(rows[i]).After(at(rows[i-1])) {
			return false
		}
	}
	return true
}

func jobTitle(job *JobRef) string {
	if job == nil || strings.TrimSpace(job.Title) == "" {
		return untitledJob
	}
	return job.Title
}

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
