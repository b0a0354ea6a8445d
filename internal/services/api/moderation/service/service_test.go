package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"trustrank/internal/core/fraud"
	"trustrank/internal/core/moderation"
	"trustrank/internal/core/sentiment"
	perr "trustrank/internal/platform/errors"
	"trustrank/internal/services/api/moderation/domain"
	actdom "trustrank/internal/services/activity/domain"
	verdom "trustrank/internal/services/verdicts/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var now = time.Date(2026, 10, 1, 14, 0, 0, 0, time.UTC)

type fakeHistory struct {
	h   fraud.History
	err error
}

func (f fakeHistory) History(context.Context, string) (fraud.History, error) { return f.h, f.err }

func (f fakeHistory) HistoryAt(context.Context, string, time.Time) (fraud.History, error) {
	return f.h, f.err
}

type fakeRecorder struct {
	events []actdom.Event
	err    error
}

func (f *fakeRecorder) Record(_ context.Context, ev actdom.Event) error {
	f.events = append(f.events, ev)
	return f.err
}

type fakeVerdicts struct {
	got []verdom.VerdictWrite
	err error
}

func (f *fakeVerdicts) WriteBatch(_ context.Context, xs []verdom.VerdictWrite) error {
	f.got = append(f.got, xs...)
	return f.err
}

type seenDetector struct {
	action  fraud.Action
	payload fraud.Payload
	history fraud.History
	sig     fraud.Signal
}

func (d *seenDetector) Detect(_ string, a fraud.Action, p fraud.Payload, h fraud.History) fraud.Signal {
	d.action, d.payload, d.history = a, p, h
	return d.sig
}

func (d *seenDetector) DetectAt(userID string, a fraud.Action, p fraud.Payload, h fraud.History, _ time.Time) fraud.Signal {
	return d.Detect(userID, a, p, h)
}

// failOpens reads trustrank_fail_open_total for component from the default registry
func failOpens(t *testing.T, component string) float64 {
	t.Helper()
	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != "trustrank_fail_open_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "component" && l.GetValue() == component {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func engines() Engines {
	sent := sentiment.New()
	det := fraud.New(fraud.WithClock(func() time.Time { return now }))
	return Engines{Sentiment: sent, Fraud: det, Moderator: moderation.New(sent, det, zerolog.Nop())}
}

func TestAnalyze(t *testing.T) {
	s := New(engines(), Deps{}, Config{})
	got, err := s.Analyze(context.Background(), domain.AnalyzeInput{Text: "hate"})
	if err != nil || got.Toxicity != 1 || got.Sentiment != sentiment.Negative {
		t.Fatalf("got %+v err=%v", got, err)
	}
}

func TestFraud_PayloadPerAction(t *testing.T) {
	cases := []struct {
		in   domain.FraudInput
		want fraud.Payload
	}{
		{domain.FraudInput{UserID: "u", Action: "create_post", Content: "hi", Links: []string{"a.com"}}, fraud.PostPayload{Content: "hi", Links: []string{"a.com"}}},
		{domain.FraudInput{UserID: "u", Action: "comment", Content: "hi", TargetID: "p1"}, fraud.CommentPayload{PostID: "p1", Content: "hi"}},
		{domain.FraudInput{UserID: "u", Action: "react", TargetID: "p1", Kind: "like"}, fraud.ReactionPayload{TargetID: "p1", Kind: "like"}},
		{domain.FraudInput{UserID: "u", Action: "follow", TargetID: "u2"}, fraud.FollowPayload{TargetUserID: "u2"}},
	}
	for _, c := range cases {
		t.Run(c.in.Action, func(t *testing.T) {
			det := &seenDetector{sig: fraud.Signal{Reasons: []string{}}}
			e := engines()
			e.Fraud = det
			hist := fraud.History{RecentPosts: []fraud.RecentPost{{ID: "x"}}}
			s := New(e, Deps{History: fakeHistory{h: hist}}, Config{})

			if _, err := s.Fraud(context.Background(), c.in); err != nil {
				t.Fatalf("Fraud: %v", err)
			}
			if string(det.action) != c.in.Action || det.payload.Action() != det.action {
				t.Fatalf("action=%s payload=%T", det.action, det.payload)
			}
			if det.payload.Text() != c.want.Text() || len(det.payload.LinkList()) != len(c.want.LinkList()) {
				t.Fatalf("payload=%+v want %+v", det.payload, c.want)
			}
			if len(det.history.RecentPosts) != 1 {
				t.Fatalf("history not passed through")
			}
		})
	}
}

func TestFraud_HistoryErrorUsesEmptyWindow(t *testing.T) {
	det := &seenDetector{}
	e := engines()
	e.Fraud = det
	s := New(e, Deps{History: fakeHistory{err: errors.New("down")}}, Config{})
	if _, err := s.Fraud(context.Background(), domain.FraudInput{UserID: "u", Action: "follow"}); err != nil {
		t.Fatalf("Fraud: %v", err)
	}
	if len(det.history.RecentPosts) != 0 || len(det.history.RecentActions) != 0 {
		t.Fatalf("history=%+v", det.history)
	}
}

func TestModerate_RecordsAndPersists(t *testing.T) {
	rec := &fakeRecorder{}
	ver := &fakeVerdicts{}
	s := New(engines(), Deps{Recorder: rec, Verdicts: ver}, Config{Persist: true, Now: func() time.Time { return now }})

	d, err := s.Moderate(context.Background(), domain.ModerateInput{UserID: "u1", Content: "idiot moron stupid", PostID: "p1"})
	if err != nil {
		t.Fatalf("Moderate: %v", err)
	}
	if d.IsApproved {
		t.Fatalf("toxic text approved: %+v", d)
	}
	if len(rec.events) != 1 || rec.events[0].Action != fraud.ActionCreatePost || rec.events[0].PostID != "p1" || !rec.events[0].At.Equal(now) {
		t.Fatalf("events=%+v", rec.events)
	}
	if len(ver.got) != 1 || ver.got[0].Source != verdom.SourceAPI || ver.got[0].Approved || ver.got[0].PostID != "p1" {
		t.Fatalf("verdicts=%+v", ver.got)
	}
}

func TestModerate_PersistOff(t *testing.T) {
	ver := &fakeVerdicts{}
	s := New(engines(), Deps{Verdicts: ver}, Config{})
	if _, err := s.Moderate(context.Background(), domain.ModerateInput{UserID: "u1", Content: "a lovely day"}); err != nil {
		t.Fatalf("Moderate: %v", err)
	}
	if len(ver.got) != 0 {
		t.Fatalf("verdict written with persistence off")
	}
}

func TestModerate_Errors(t *testing.T) {
	boom := errors.New("boom")

	// recorder failures are logged only
	s := New(engines(), Deps{Recorder: &fakeRecorder{err: boom}}, Config{})
	if _, err := s.Moderate(context.Background(), domain.ModerateInput{UserID: "u1", Content: "ok"}); err != nil {
		t.Fatalf("record error leaked: %v", err)
	}

	// a rejected verdict write, e.g. a post not stored yet, keeps the decision
	before := failOpens(t, "verdicts")
	rec := &fakeRecorder{}
	s = New(engines(), Deps{Recorder: rec, Verdicts: &fakeVerdicts{err: perr.InvalidArgf("post not found")}}, Config{Persist: true})
	d, err := s.Moderate(context.Background(), domain.ModerateInput{UserID: "u1", Content: "idiot moron stupid", PostID: "5b1f6c1e-2f43-4a8e-9c59-7c1b2d3e4f50"})
	if err != nil {
		t.Fatalf("verdict error leaked: %v", err)
	}
	if d.IsApproved || d.Sentiment.Toxicity == 0 || len(rec.events) != 1 {
		t.Fatalf("decision=%+v events=%d", d, len(rec.events))
	}
	if got := failOpens(t, "verdicts"); got != before+1 {
		t.Fatalf("fail open count=%v want %v", got, before+1)
	}
}

func TestNew_PanicsWithoutModerator(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	New(Engines{}, Deps{}, Config{})
}
