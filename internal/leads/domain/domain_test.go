package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

var baseTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestResolveIdentityPrefersAccountID(t *testing.T) {
	first := ResolveIdentity("u1", "a@b.com", "click:1")
	second := ResolveIdentity("u1", "other@b.com", "click:2")

	assert.Equal(t, "u:u1", first)
	assert.Equal(t, first, second)
	assert.Equal(t, first, ResolveIdentity("u1", "a@b.com", "click:1"))
}

func TestResolveIdentityNormalizesEmail(t *testing.T) {
	assert.Equal(t,
		ResolveIdentity("", " Foo@Bar.com ", "fb"),
		ResolveIdentity("", "foo@bar.com", "fb"),
	)
	assert.Equal(t, "e:foo@bar.com", ResolveIdentity("", "foo@bar.com", "fb"))
}

func TestResolveIdentityFallbackIsolation(t *testing.T) {
	a := ResolveIdentity("", "", "click:1")
	b := ResolveIdentity("", "", "click:2")

	assert.NotEqual(t, a, b)
	assert.Equal(t, "click:1", a)
}

func TestAggregateLeadsCapsEventsAtTwelveMostRecent(t *testing.T) {
	apps := make([]ApplicationRow, 0, 20)
	for i := 0; i < 20; i++ {
		apps = append(apps, ApplicationRow{
			ID:        fmt.Sprintf("a%d", i),
			UserID:    strPtr("u1"),
			Status:    "pending",
			CreatedAt: baseTime.Add(time.Duration(i) * time.Hour),
		})
	}

	leads := AggregateLeads(AggregateInput{Applications: apps, Now: baseTime})

	require.Len(t, leads, 1)
	lead := leads[0]
	assert.Equal(t, 20, lead.Applications)
	require.Len(t, lead.Events, MaxLeadEvents)
	assert.Equal(t, baseTime.Add(19*time.Hour), lead.Events[0].At)
	assert.Equal(t, baseTime.Add(8*time.Hour), lead.Events[MaxLeadEvents-1].At)
	for i := 1; i < len(lead.Events); i++ {
		assert.True(t, lead.Events[i-1].At.After(lead.Events[i].At))
	}
}

func TestSummarizeRateGuard(t *testing.T) {
	consultations := []ConsultationRow{
		{ID: "c1", Status: StatusBooked},
		{ID: "c2", Status: StatusConfirmed},
	}

	s := Summarize(nil, nil, consultations)

	assert.Equal(t, 0, s.ApplyClicks)
	assert.Equal(t, 2, s.BookedConsultations)
	assert.Equal(t, 0.0, s.ApplyToBookedRate)
}

func TestSummarizeCountsBookedFamily(t *testing.T) {
	clicks := []ClickRow{
		{ID: "k1", ClickType: ClickApply},
		{ID: "k2", ClickType: ClickApply},
		{ID: "k3", ClickType: ClickApply},
		{ID: "k4", ClickType: ClickConsult},
	}
	apps := []ApplicationRow{{ID: "a1", Status: "pending"}}
	consultations := []ConsultationRow{
		{ID: "c1", Status: StatusBooked},
		{ID: "c2", Status: StatusRescheduled},
		{ID: "c3", Status: StatusCompleted},
		{ID: "c4", Status: StatusCanceled},
	}

	s := Summarize(clicks, apps, consultations)

	assert.Equal(t, 3, s.ApplyClicks)
	assert.Equal(t, 1, s.ConsultClicks)
	assert.Equal(t, 1, s.Applications)
	assert.Equal(t, 2, s.BookedConsultations)
	assert.Equal(t, 1, s.CompletedConsultations)
	assert.Equal(t, 66.7, s.ApplyToBookedRate)
}

func TestNextConsultationIsEarliestFutureRegardlessOfOrder(t *testing.T) {
	now := baseTime
	soon := ConsultationRow{ID: "c1", UserID: strPtr("u1"), Status: StatusBooked, StartsAt: timePtr(now.Add(24 * time.Hour)), CreatedAt: now.Add(-time.Hour)}
	later := ConsultationRow{ID: "c2", UserID: strPtr("u1"), Status: StatusBooked, StartsAt: timePtr(now.Add(72 * time.Hour)), CreatedAt: now.Add(-2 * time.Hour)}
	past := ConsultationRow{ID: "c3", UserID: strPtr("u1"), Status: StatusCompleted, StartsAt: timePtr(now.Add(-48 * time.Hour)), CreatedAt: now.Add(-72 * time.Hour)}

	for _, rows := range [][]ConsultationRow{{soon, later, past}, {later, past, soon}} {
		leads := AggregateLeads(AggregateInput{Consultations: rows, Now: now})
		require.Len(t, leads, 1)
		require.NotNil(t, leads[0].NextConsultationAt)
		assert.Equal(t, now.Add(24*time.Hour), *leads[0].NextConsultationAt)
		assert.Equal(t, 3, leads[0].Consultations)
	}
}

func TestAggregateLeadsEndToEnd(t *testing.T) {
	profiles := NewProfileLookup([]Profile{{
		ID:        "u1",
		Email:     strPtr("a@b.com"),
		LastName:  strPtr("山田"),
		FirstName: strPtr("太郎"),
	}})
	job := &JobRef{ID: "j1", Title: "倉庫スタッフ", Type: strPtr("派遣")}

	leads := AggregateLeads(AggregateInput{
		Clicks: []ClickRow{{
			ID: "k1", UserID: strPtr("u1"), JobID: strPtr("j1"),
			ClickType: ClickApply, ClickedAt: baseTime, Job: job,
		}},
		Applications: []ApplicationRow{{
			ID: "a1", UserID: strPtr("u1"), JobID: strPtr("j1"),
			Status: "pending", CreatedAt: baseTime.Add(time.Minute), Job: job,
		}},
		Profiles: profiles,
		Now:      baseTime.Add(time.Hour),
	})

	require.Len(t, leads, 1)
	lead := leads[0]
	assert.Equal(t, "u:u1", lead.ID)
	assert.Equal(t, "山田 太郎", lead.DisplayName)
	assert.Equal(t, AccountRegistered, lead.AccountType)
	assert.Equal(t, 1, lead.ApplyClicks)
	assert.Equal(t, 1, lead.Applications)
	require.NotNil(t, lead.LatestApplicationStatus)
	assert.Equal(t, "pending", *lead.LatestApplicationStatus)
	require.Len(t, lead.Events, 2)
	assert.Equal(t, EventApplication, lead.Events[0].Kind)
	assert.Equal(t, EventApplyClick, lead.Events[1].Kind)
	require.NotNil(t, lead.JobTitle)
	assert.Equal(t, "倉庫スタッフ", *lead.JobTitle)
}

func TestGuestConsultationsDedupByEmail(t *testing.T) {
	rows := []ConsultationRow{
		{ID: "c1", Status: StatusBooked, AttendeeEmail: strPtr("Guest@Example.com "), AttendeeName: strPtr("佐藤 花子"), CreatedAt: baseTime},
		{ID: "c2", Status: StatusBooked, AttendeeEmail: strPtr(" guest@example.com"), CreatedAt: baseTime.Add(-time.Hour)},
		{ID: "c3", Status: StatusBooked, AttendeeEmail: strPtr("other@example.com"), CreatedAt: baseTime.Add(-2 * time.Hour)},
	}

	leads := AggregateLeads(AggregateInput{Consultations: rows, Now: baseTime})

	require.Len(t, leads, 2)
	assert.Equal(t, "e:guest@example.com", leads[0].ID)
	assert.Equal(t, 2, leads[0].Consultations)
	assert.Equal(t, AccountGuest, leads[0].AccountType)
	assert.Equal(t, "佐藤 花子", leads[0].DisplayName)
	assert.Equal(t, "e:other@example.com", leads[1].ID)
	assert.Equal(t, guestDisplayName, leads[1].DisplayName)
}

func TestAnonymousClicksStayDistinct(t *testing.T) {
	clicks := []ClickRow{
		{ID: "k1", ClickType: ClickApply, ClickedAt: baseTime},
		{ID: "k2", ClickType: ClickConsult, ClickedAt: baseTime.Add(-time.Minute)},
	}

	leads := AggregateLeads(AggregateInput{Clicks: clicks, Now: baseTime})

	require.Len(t, leads, 2)
	assert.Equal(t, "click:k1", leads[0].ID)
	assert.Equal(t, 1, leads[0].ApplyClicks)
	assert.Equal(t, 1, leads[1].ConsultClicks)
}

func TestConsultationMatchesProfileByEmail(t *testing.T) {
	profiles := NewProfileLookup([]Profile{{ID: "u9", Email: strPtr("Member@Example.com"), LastName: strPtr("鈴木")}})
	rows := []ConsultationRow{{ID: "c1", Status: StatusBooked, AttendeeEmail: strPtr("member@example.com"), CreatedAt: baseTime}}

	leads := AggregateLeads(AggregateInput{Consultations: rows, Profiles: profiles, Now: baseTime})

	require.Len(t, leads, 1)
	assert.Equal(t, AccountRegistered, leads[0].AccountType)
	assert.Equal(t, "鈴木", leads[0].DisplayName)
	require.NotNil(t, leads[0].UserID)
	assert.Equal(t, "u9", *leads[0].UserID)
}

func TestLatestStatusIsLastRowFolded(t *testing.T) {
	apps := []ApplicationRow{
		{ID: "a2", UserID: strPtr("u1"), Status: "pending", CreatedAt: baseTime},
		{ID: "a1", UserID: strPtr("u1"), Status: "hired", CreatedAt: baseTime.Add(-time.Hour)},
	}
	consultations := []ConsultationRow{
		{ID: "c2", UserID: strPtr("u1"), Status: StatusBooked, MeetingURL: strPtr("https://meet.google.com/new"), CreatedAt: baseTime},
		{ID: "c1", UserID: strPtr("u1"), Status: StatusCompleted, MeetingURL: strPtr("  "), CreatedAt: baseTime.Add(-time.Hour)},
	}
	require.True(t, SortedDesc(apps, func(a ApplicationRow) time.Time { return a.CreatedAt }))
	require.True(t, SortedDesc(consultations, func(c ConsultationRow) time.Time { return c.CreatedAt }))

	leads := AggregateLeads(AggregateInput{Applications: apps, Consultations: consultations, Now: baseTime})

	require.Len(t, leads, 1)
	require.NotNil(t, leads[0].LatestApplicationStatus)
	assert.Equal(t, "hired", *leads[0].LatestApplicationStatus)
	require.NotNil(t, leads[0].LatestConsultationStatus)
	assert.Equal(t, StatusCompleted, *leads[0].LatestConsultationStatus)
	require.NotNil(t, leads[0].MeetingURL)
	assert.Equal(t, "https://meet.google.com/new", *leads[0].MeetingURL)
}

func TestLeadsSortedByLatestEvent(t *testing.T) {
	clicks := []ClickRow{
		{ID: "k1", UserID: strPtr("old"), ClickType: ClickApply, ClickedAt: baseTime.Add(-48 * time.Hour)},
		{ID: "k2", UserID: strPtr("new"), ClickType: ClickApply, ClickedAt: baseTime},
	}

	leads := AggregateLeads(AggregateInput{Clicks: clicks, Now: baseTime})

	require.Len(t, leads, 2)
	assert.Equal(t, "u:new", leads[0].ID)
	assert.Equal(t, "u:old", leads[1].ID)
}

func TestSortedDescDetectsAscendingInput(t *testing.T) {
	rows := []ClickRow{{ClickedAt: baseTime}, {ClickedAt: baseTime.Add(time.Second)}}
	assert.False(t, SortedDesc(rows, func(c ClickRow) time.Time { return c.ClickedAt }))
	assert.True(t, SortedDesc([]ClickRow{}, func(c ClickRow) time.Time { return c.ClickedAt }))
}

func TestAgeAt(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	before := AgeAt(timePtr(time.Date(2000, 6, 16, 0, 0, 0, 0, time.UTC)), now)
	require.NotNil(t, before)
	assert.Equal(t, 25, *before)

	on := AgeAt(timePtr(time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)), now)
	require.NotNil(t, on)
	assert.Equal(t, 26, *on)

	assert.Nil(t, AgeAt(nil, now))
}
