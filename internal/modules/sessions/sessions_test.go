package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"lafelle.com/app/internal/catalogapi"
	"lafelle.com/app/internal/config"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)}
	st := NewMemoryStore()
	st.now = clk.now

	user := catalogapi.User{ID: "u1", Email: "admin@lafelle.com", Name: "Admin", Role: "admin"}
	sess, err := st.Create(ctx, "tok-1", user, time.Hour)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := st.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Token != "tok-1" {
		t.Fatalf("Token = %q", got.Token)
	}
	u, err := got.User()
	if err != nil || u != user {
		t.Fatalf("User() = %+v, %v", u, err)
	}

	clk.t = clk.t.Add(30 * time.Minute)
	if err := st.Touch(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	got, _ = st.Get(ctx, sess.ID)
	if !got.LastSeenAt.Equal(clk.t) {
		t.Fatalf("LastSeenAt = %v", got.LastSeenAt)
	}

	if err := st.Delete(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("after delete: %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)}
	st := NewMemoryStore()
	st.now = clk.now

	short, _ := st.Create(ctx, "a", catalogapi.User{Email: "a@x.io"}, time.Minute)
	long, _ := st.Create(ctx, "b", catalogapi.User{Email: "b@x.io"}, time.Hour)

	clk.t = clk.t.Add(time.Minute)
	if _, err := st.Get(ctx, short.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired session returned: %v", err)
	}
	n, err := st.DeleteExpired(ctx)
	if err != nil || n != 1 {
		t.Fatalf("DeleteExpired() = %d, %v", n, err)
	}
	if _, err := st.Get(ctx, long.ID); err != nil {
		t.Fatalf("live session lost: %v", err)
	}
}

func TestIsDuplicateKey(t *testing.T) {
	if !IsDuplicateKey(fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062})) {
		t.Fatal("1062 not detected")
	}
	if IsDuplicateKey(&mysql.MySQLError{Number: 1213}) || IsDuplicateKey(errors.New("x")) {
		t.Fatal("false positive")
	}
}

func TestFromConfig(t *testing.T) {
	st, closeFn, err := FromConfig(config.SessionConfig{Driver: "memory"})
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()
	if _, ok := st.(*MemoryStore); !ok {
		t.Fatalf("store = %T", st)
	}
	if _, _, err := FromConfig(config.SessionConfig{Driver: "redis"}); err == nil {
		t.Fatal("unknown driver accepted")
	}
}

func TestNormalizeDSN(t *testing.T) {
	got, err := NormalizeDSN("app:pw@tcp(db:3306)/lafelle?charset=utf8mb4")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := mysql.ParseDSN(got)
	if err != nil {
		t.Fatalf("ParseDSN(%q) error = %v", got, err)
	}
	if !cfg.ParseTime || cfg.DBName != "lafelle" || cfg.Addr != "db:3306" || cfg.Params["charset"] != "utf8mb4" {
		t.Fatalf("normalized = %q", got)
	}

	if _, err := NormalizeDSN("app:pw@tcp(db:3306)lafelle"); err == nil {
		t.Fatal("malformed DSN accepted")
	}
	if _, _, err := FromConfig(config.SessionConfig{Driver: "mysql", DSN: "app:pw@tcp(db:3306)lafelle"}); err == nil {
		t.Fatal("FromConfig accepted a malformed DSN")
	}
}

// dryRunDB builds statements without a server. Callbacks registered by
// the test stand in for database results.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		DSN:                       "app:pw@tcp(127.0.0.1:1)/lafelle?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true, SkipDefaultTransaction: true})
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestGormStoreCreateRetriesCollision(t *testing.T) {
	cases := []struct {
		name     string
		failWith []error
		wantErr  bool
		attempts int
	}{
		{"first try", nil, false, 1},
		{"one collision", []error{&mysql.MySQLError{Number: 1062}}, false, 2},
		{"two collisions", []error{&mysql.MySQLError{Number: 1062}, &mysql.MySQLError{Number: 1062}}, true, 2},
		{"other error", []error{&mysql.MySQLError{Number: 1213}}, true, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := dryRunDB(t)
			var ids []string
			err := db.Callback().Create().After("gorm:create").Register("test:result", func(tx *gorm.DB) {
				ids = append(ids, tx.Statement.Dest.(*Session).ID)
				if n := len(ids); n <= len(tc.failWith) {
					_ = tx.AddError(tc.failWith[n-1])
				}
			})
			if err != nil {
				t.Fatal(err)
			}

			sess, err := NewGormStore(db).Create(context.Background(), "tok", catalogapi.User{Email: "a@x.io"}, time.Hour)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Create() error = %v", err)
			}
			if len(ids) != tc.attempts {
				t.Fatalf("attempts = %d, want %d", len(ids), tc.attempts)
			}
			if len(ids) == 2 && ids[0] == ids[1] {
				t.Fatal("retry reused the colliding id")
			}
			if err == nil && sess.ID != ids[len(ids)-1] {
				t.Fatalf("returned id %q, inserted %q", sess.ID, ids[len(ids)-1])
			}
		})
	}
}

func TestGormStoreGetFiltersExpired(t *testing.T) {
	db := dryRunDB(t)
	var (
		sql  string
		vars []any
	)
	notFound := false
	err := db.Callback().Query().After("gorm:query").Register("test:result", func(tx *gorm.DB) {
		sql, vars = tx.Statement.SQL.String(), tx.Statement.Vars
		if notFound {
			_ = tx.AddError(gorm.ErrRecordNotFound)
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	st := NewGormStore(db)
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	if _, err := st.Get(context.Background(), "sid"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !strings.Contains(sql, "admin_sessions") || !strings.Contains(sql, "expires_at > ?") {
		t.Fatalf("sql = %s", sql)
	}
	if len(vars) < 2 || vars[0] != "sid" || vars[1] != now {
		t.Fatalf("vars = %v", vars)
	}

	notFound = true
	if _, err := st.Get(context.Background(), "sid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing row: %v", err)
	}
}

func TestGormStoreDeleteExpired(t *testing.T) {
	db := dryRunDB(t)
	var sql string
	err := db.Callback().Delete().After("gorm:delete").Register("test:result", func(tx *gorm.DB) {
		sql = tx.Statement.SQL.String()
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewGormStore(db).DeleteExpired(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(sql, "DELETE FROM `admin_sessions`") || !strings.Contains(sql, "expires_at <= ?") {
		t.Fatalf("sql = %s", sql)
	}
}
