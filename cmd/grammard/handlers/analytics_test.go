package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/opst/grammarfab/cmd/grammard/handlers"
	httptestutil "github.com/opst/grammarfab/internal/testutils/http"
	apianalytics "github.com/opst/grammarfab/pkg/api/types/analytics"
	apicorrections "github.com/opst/grammarfab/pkg/api/types/corrections"
	kdb "github.com/opst/grammarfab/pkg/db"
	"github.com/opst/grammarfab/pkg/db/mocks"
)

func TestStatsHandler(t *testing.T) {
	t.Run("today is the UTC day including now", func(t *testing.T) {
		analytics := mocks.NewMockAnalyticsInterface()
		analytics.Impl.Stats = func(ctx context.Context, dayStart, dayEnd time.Time) (kdb.Stats, error) {
			return kdb.Stats{TotalCorrections: 10, TotalUsers: 3, CorrectionsToday: 2, UsersToday: 1}, nil
		}
		jst := time.FixedZone("JST", 9*60*60)
		now := time.Date(2024, 3, 2, 8, 0, 0, 0, jst) // = 2024-03-01T23:00Z
		testee := handlers.StatsHandler(analytics, func() time.Time { return now })

		e := echo.New()
		c, resp := httptestutil.Get(e, "/api/analytics/stats")
		if got := status(t, testee(as(c, admin)), resp); got != http.StatusOK {
			t.Fatalf("status = %d", got)
		}

		call := analytics.Calls.Stats[0]
		if want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC); !call.DayStart.Equal(want) {
			t.Errorf("day start = %v, want %v", call.DayStart, want)
		}
		if want := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC); !call.DayEnd.Equal(want) {
			t.Errorf("day end = %v, want %v", call.DayEnd, want)
		}

		got := decode[apianalytics.Stats](t, resp)
		want := apianalytics.Stats{TotalCorrections: 10, TotalUsers: 3, CorrectionsToday: 2, UsersToday: 1}
		if got != want {
			t.Errorf("stats = %+v, want %+v", got, want)
		}
	})

	t.Run("database error is 500", func(t *testing.T) {
		analytics := mocks.NewMockAnalyticsInterface()
		analytics.Impl.Stats = func(ctx context.Context, dayStart, dayEnd time.Time) (kdb.Stats, error) {
			return kdb.Stats{}, errors.New("fake error")
		}
		testee := handlers.StatsHandler(analytics, time.Now)

		e := echo.New()
		c, resp := httptestutil.Get(e, "/api/analytics/stats")
		if got := status(t, testee(as(c, admin)), resp); got != http.StatusInternalServerError {
			t.Errorf("status = %d", got)
		}
	})
}

func TestMyStatsHandler(t *testing.T) {
	testee := handlers.MyStatsHandler(counting(7))

	e := echo.New()
	c, resp := httptestutil.Get(e, "/api/analytics/my-stats")
	if got := status(t, testee(as(c, alice)), resp); got != http.StatusOK {
		t.Fatalf("status = %d", got)
	}
	got := decode[apianalytics.MyStats](t, resp)
	if got.UserId != alice.Id || got.Email != alice.Email || got.FullName != alice.FullName || got.TotalCorrections != 7 {
		t.Errorf("unexpected stats: %+v", got)
	}
	if !got.MemberSince.Time().Equal(alice.CreatedAt) {
		t.Errorf("member since = %v", got.MemberSince)
	}
}

func TestMyCorrectionCountHandler(t *testing.T) {
	corrections := counting(4)
	testee := handlers.MyCorrectionCountHandler(corrections)

	e := echo.New()
	c, resp := httptestutil.Get(e, "/api/corrections/count")
	if got := status(t, testee(as(c, alice)), resp); got != http.StatusOK {
		t.Fatalf("status = %d", got)
	}
	if q := corrections.Calls.Count[0]; q.UserId == nil || *q.UserId != alice.Id {
		t.Errorf("query = %+v", q)
	}
	got := decode[apianalytics.CorrectionCount](t, resp)
	if got != (apianalytics.CorrectionCount{UserId: alice.Id, TotalCorrections: 4}) {
		t.Errorf("unexpected count: %+v", got)
	}
}

func TestUserCorrectionHandlers(t *testing.T) {
	newUsers := func() *mocks.MockUserInterface {
		users := mocks.NewMockUserInterface()
		users.Impl.GetByUUID = func(ctx context.Context, uuid string) (kdb.User, error) {
			if uuid == alice.UUID {
				return alice, nil
			}
			return kdb.User{}, kdb.ErrMissing
		}
		return users
	}

	t.Run("UserCorrectionsHandler responds latest corrections of the user", func(t *testing.T) {
		corrections := finding(correctionOf(1, &alice.Id))
		testee := handlers.UserCorrectionsHandler(newUsers(), corrections, "userUuid", 10, 100)

		e := echo.New()
		c, resp := httptestutil.Get(e, "/api/analytics/users/"+alice.UUID+"/corrections?limit=5")
		c.SetParamNames("userUuid")
		c.SetParamValues(alice.UUID)
		if got := status(t, testee(as(c, admin)), resp); got != http.StatusOK {
			t.Fatalf("status = %d", got)
		}
		call := corrections.Calls.Find[0]
		if call.Query.UserId == nil || *call.Query.UserId != alice.Id || call.Page != kdb.FirstPage(5) {
			t.Errorf("unexpected find: %+v", call)
		}
		if got := decode[[]apicorrections.Correction](t, resp); len(got) != 1 {
			t.Errorf("unexpected response: %+v", got)
		}
	})

	t.Run("UserCorrectionCountHandler responds count with uuid", func(t *testing.T) {
		testee := handlers.UserCorrectionCountHandler(newUsers(), counting(8), "userUuid")

		e := echo.New()
		c, resp := httptestutil.Get(e, "/api/analytics/users/"+alice.UUID+"/count")
		c.SetParamNames("userUuid")
		c.SetParamValues(alice.UUID)
		if got := status(t, testee(as(c, admin)), resp); got != http.StatusOK {
			t.Fatalf("status = %d", got)
		}
		got := decode[apianalytics.UserCorrectionCount](t, resp)
		if got != (apianalytics.UserCorrectionCount{UserUUID: alice.UUID, TotalCorrections: 8}) {
			t.Errorf("unexpected count: %+v", got)
		}
	})

	for name, testee := range map[string]echo.HandlerFunc{
		"UserCorrectionsHandler":     handlers.UserCorrectionsHandler(newUsers(), finding(), "userUuid", 10, 100),
		"UserCorrectionCountHandler": handlers.UserCorrectionCountHandler(newUsers(), counting(0), "userUuid"),
	} {
		t.Run(name+" responds 404 for unknown user", func(t *testing.T) {
			e := echo.New()
			c, resp := httptestutil.Get(e, "/api/analytics/users/unknown")
			c.SetParamNames("userUuid")
			c.SetParamValues("unknown")
			if got := status(t, testee(as(c, admin)), resp); got != http.StatusNotFound {
				t.Errorf("status = %d", got)
			}
		})
	}
}
