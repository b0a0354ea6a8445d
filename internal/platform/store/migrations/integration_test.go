//go:build integration_pg

package migrations_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"trustrank/internal/core/moderation"
	"trustrank/internal/core/sentiment"
	"trustrank/internal/platform/store"
	"trustrank/internal/platform/store/migrations"
	contentdom "trustrank/internal/services/content/domain"
	contentrepo "trustrank/internal/services/content/repo"
	contentsvc "trustrank/internal/services/content/service"
	profilesrepo "trustrank/internal/services/profiles/repo"
	profilessvc "trustrank/internal/services/profiles/service"
	verdom "trustrank/internal/services/verdicts/domain"
	verrepo "trustrank/internal/services/verdicts/repo"
	versvc "trustrank/internal/services/verdicts/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) *store.Store {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "trustrank",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections"),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, _ := c.Host(ctx)
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://postgres:postgres@%s:%s/trustrank?sslmode=disable", host, mp.Port())

	st, err := store.Open(ctx, store.Config{PG: store.PGConfig{Enabled: true, URL: dsn, MaxConns: 4}},
		store.WithLogger(zerolog.New(io.Discard)))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	return st
}

func TestIntegration_SchemaAndRepos(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()

	if err := migrations.Apply(ctx, st.PG); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// reruns are no-ops
	if err := migrations.Apply(ctx, st.PG); err != nil {
		t.Fatalf("second Apply: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	p1, p2 := uuid.NewString(), uuid.NewString()
	for i, id := range []string{p1, p2} {
		if _, err := st.PG.Exec(ctx,
			`insert into posts (id, author_id, content, links, has_media, created_at) values ($1, $2, $3, $4, $5, $6)`,
			id, "author-1", "hiking #Outdoors", []string{"https://example.com"}, i == 0, now.Add(-time.Duration(i+1)*time.Minute),
		); err != nil {
			t.Fatalf("seed post: %v", err)
		}
	}
	if _, err := st.PG.Exec(ctx,
		`insert into behavior_profiles (user_id, interests, hours, days, posting_frequency, hashtag_prefs, author_prefs)
		 values ($1, $2, $3, $4, $5, $6, $7)`,
		"viewer", []string{"Hiking"}, []int32{18, 19}, []int32{6}, 2.5, `{"#Outdoors": 0.8}`, `{"author-1": 1}`,
	); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	t.Run("profiles", func(t *testing.T) {
		svc := profilessvc.New(st.PG, profilesrepo.NewPG(), profilessvc.Config{})
		p, err := svc.Get(ctx, "viewer")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !p.Interests.Has("hiking") || p.Preferences.Hashtags["outdoors"] != 0.8 || p.Preferences.Authors["author-1"] != 1 {
			t.Fatalf("profile=%+v", p)
		}
		empty, err := svc.Get(ctx, "nobody")
		if err != nil || empty.UserID != "nobody" {
			t.Fatalf("empty=%+v err=%v", empty, err)
		}
	})

	t.Run("content candidates", func(t *testing.T) {
		svc := contentsvc.New(st.PG, contentrepo.NewPG(), contentsvc.Config{})
		items, err := svc.Candidates(ctx, contentdom.CandidatesInput{ViewerID: "viewer"})
		if err != nil {
			t.Fatalf("Candidates: %v", err)
		}
		if len(items) != 2 || items[0].ID != p1 || !items[0].HasMedia {
			t.Fatalf("items=%+v", items)
		}
	})

	t.Run("pending then verdicts", func(t *testing.T) {
		content := contentsvc.New(st.PG, contentrepo.NewPG(), contentsvc.Config{})
		verdicts := versvc.New(st.PG, verrepo.NewPG(), zerolog.Nop())

		page, next, err := content.ListPending(ctx, now.Add(-time.Hour), now.Add(time.Hour), contentdom.AfterKey{}, 1)
		if err != nil || len(page) != 1 || page[0].ID != p2 {
			t.Fatalf("page=%+v err=%v", page, err)
		}
		page2, _, err := content.ListPending(ctx, now.Add(-time.Hour), now.Add(time.Hour), next, 10)
		if err != nil || len(page2) != 1 || page2[0].ID != p1 {
			t.Fatalf("page2=%+v err=%v", page2, err)
		}

		d := moderation.Decision{IsApproved: true, Sentiment: sentiment.Default()}
		w := verdom.FromDecision(p2, "author-1", verdom.SourceSweep, d, now)
		if err := verdicts.WriteBatch(ctx, []verdom.VerdictWrite{w, w}); err != nil {
			t.Fatalf("WriteBatch: %v", err)
		}
		// api verdicts may land before their post is stored
		early := verdom.FromDecision(uuid.NewString(), "author-1", verdom.SourceAPI, d, now)
		if err := verdicts.WriteBatch(ctx, []verdom.VerdictWrite{early}); err != nil {
			t.Fatalf("verdict for unstored post: %v", err)
		}
		// ad hoc rows carry no post id
		adhoc := verdom.FromDecision("", "author-1", verdom.SourceAPI, d, now)
		if err := verdicts.WriteBatch(ctx, []verdom.VerdictWrite{adhoc}); err != nil {
			t.Fatalf("ad hoc WriteBatch: %v", err)
		}

		left, _, err := content.ListPending(ctx, now.Add(-time.Hour), now.Add(time.Hour), contentdom.AfterKey{}, 10)
		if err != nil || len(left) != 1 || left[0].ID != p1 {
			t.Fatalf("left=%+v err=%v", left, err)
		}
	})

	t.Run("tx rollback", func(t *testing.T) {
		boom := errors.New("boom")
		err := st.PG.Tx(ctx, func(q store.RowQuerier) error {
			if _, err := q.Exec(ctx, `delete from posts`); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("Tx err=%v", err)
		}
		var n int
		if err := st.PG.QueryRow(ctx, `select count(*) from posts`).Scan(&n); err != nil || n != 2 {
			t.Fatalf("posts=%d err=%v", n, err)
		}
	})
}
