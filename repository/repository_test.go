package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"LabelCMS/core/auth"
	"LabelCMS/db"
	"LabelCMS/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cms.db")), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

func adminCtx() context.Context {
	return auth.WithPrincipal(context.Background(), &auth.Principal{UserID: 1, OpenID: "owner", Role: model.RoleAdmin})
}

func userCtx() context.Context {
	return auth.WithPrincipal(context.Background(), &auth.Principal{UserID: 2, OpenID: "fan", Role: model.RoleUser})
}

func str(s string) *string { return &s }

func releaseInput(title, date string) model.ReleaseInput {
	format := model.FormatDigitalAlbum
	return model.ReleaseInput{
		Title:       str(title),
		Artist:      str("DJ X"),
		ReleaseDate: str(date),
		Format:      &format,
	}
}

func trackInput(releaseID int64, number int, title string) model.TrackInput {
	return model.TrackInput{
		ReleaseID:   &releaseID,
		TrackNumber: &number,
		Artist:      str("DJ X"),
		Title:       str(title),
		Length:      str("3:45"),
	}
}

func isAuthError(err error, anonymous bool) bool {
	var ae *auth.AuthorizationError
	return errors.As(err, &ae) && ae.Anonymous == anonymous
}

func TestReleaseLifecycle(t *testing.T) {
	gdb := openTestDB(t)
	releases := NewReleaseRepository(gdb)
	tracks := NewTrackRepository(gdb)
	ctx := adminCtx()

	id, err := releases.Create(ctx, releaseInput("Night Drive", "2024-01-01"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id <= 0 {
		t.Fatalf("Create() id = %d", id)
	}

	got, err := releases.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "Night Drive" || got.Format != model.FormatDigitalAlbum {
		t.Errorf("GetByID() = %+v", got)
	}
	if want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC); !got.ReleaseDate.Equal(want) {
		t.Errorf("ReleaseDate = %v, want %v", got.ReleaseDate, want)
	}

	if _, err := tracks.Create(ctx, trackInput(id, 1, "Intro")); err != nil {
		t.Fatalf("track Create() error = %v", err)
	}
	list, err := tracks.ListByRelease(ctx, id)
	if err != nil || len(list) != 1 || list[0].Title != "Intro" {
		t.Fatalf("ListByRelease() = %+v, %v", list, err)
	}

	withTracks, err := releases.GetWithTracks(ctx, id)
	if err != nil {
		t.Fatalf("GetWithTracks() error = %v", err)
	}
	if len(withTracks.Tracks) != 1 {
		t.Errorf("GetWithTracks() tracks = %d, want 1", len(withTracks.Tracks))
	}

	if err := releases.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	list, err = tracks.ListByRelease(ctx, id)
	if err != nil || len(list) != 0 {
		t.Errorf("ListByRelease() after delete = %+v, %v", list, err)
	}
	if _, err := releases.GetByID(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
	if err := releases.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestReleaseDeleteCascadesOnlyItsTracks(t *testing.T) {
	gdb := openTestDB(t)
	releases := NewReleaseRepository(gdb)
	tracks := NewTrackRepository(gdb)
	ctx := adminCtx()

	doomed, _ := releases.Create(ctx, releaseInput("Doomed", "2024-02-01"))
	kept, _ := releases.Create(ctx, releaseInput("Kept", "2024-03-01"))
	for i := 1; i <= 7; i++ {
		if _, err := tracks.Create(ctx, trackInput(doomed, i, "song")); err != nil {
			t.Fatalf("track Create() error = %v", err)
		}
	}
	if _, err := tracks.Create(ctx, trackInput(kept, 1, "stays")); err != nil {
		t.Fatalf("track Create() error = %v", err)
	}

	if err := releases.Delete(ctx, doomed); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	all, err := tracks.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 1 || all[0].ReleaseID != kept {
		t.Errorf("remaining tracks = %+v, want only the kept release's", all)
	}
}

func TestReleaseOrderingAndLatest(t *testing.T) {
	gdb := openTestDB(t)
	releases := NewReleaseRepository(gdb)
	ctx := adminCtx()

	for _, r := range []struct{ title, date string }{
		{"Old", "2022-05-01"},
		{"Newest", "2024-06-01"},
		{"Middle", "2023-01-15"},
		{"Twin", "2023-01-15"},
	} {
		if _, err := releases.Create(ctx, releaseInput(r.title, r.date)); err != nil {
			t.Fatalf("Create(%s) error = %v", r.title, err)
		}
	}

	all, err := releases.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	var titles []string
	for _, r := range all {
		titles = append(titles, r.Title)
	}
	want := []string{"Newest", "Twin", "Middle", "Old"}
	if len(titles) != len(want) {
		t.Fatalf("ListAll() titles = %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("ListAll() titles = %v, want %v", titles, want)
		}
	}

	tests := []struct {
		limit int
		want  int
	}{
		{limit: 2, want: 2},
		{limit: 10, want: 4},
		{limit: 0, want: 4},
		{limit: -3, want: 4},
	}
	for _, tt := range tests {
		latest, err := releases.ListLatest(ctx, tt.limit)
		if err != nil {
			t.Fatalf("ListLatest(%d) error = %v", tt.limit, err)
		}
		if len(latest) != tt.want {
			t.Errorf("ListLatest(%d) len = %d, want %d", tt.limit, len(latest), tt.want)
		}
		for i := range latest {
			if latest[i].ID != all[i].ID {
				t.Errorf("ListLatest(%d)[%d] = %d, not a prefix of ListAll", tt.limit, i, latest[i].ID)
			}
		}
	}
}

func TestReleaseUpdate(t *testing.T) {
	gdb := openTestDB(t)
	releases := NewReleaseRepository(gdb)
	ctx := adminCtx()

	id, err := releases.Create(ctx, releaseInput("Draft", "2024-01-01"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	format := model.FormatVinylAlbum
	if err := releases.Update(ctx, id, model.ReleaseInput{Title: str("Final"), Format: &format}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ := releases.GetByID(ctx, id)
	if got.Title != "Final" || got.Format != model.FormatVinylAlbum || got.Artist != "DJ X" {
		t.Errorf("after Update() = %+v", got)
	}

	if err := releases.Update(ctx, id+100, model.ReleaseInput{Title: str("Ghost")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(unknown) error = %v, want ErrNotFound", err)
	}

	bad := model.ReleaseFormat("8-Track")
	var ve *model.ValidationError
	if err := releases.Update(ctx, id, model.ReleaseInput{Format: &bad}); !errors.As(err, &ve) {
		t.Errorf("Update(bad format) error = %v, want ValidationError", err)
	}
}

func TestWritesRequireAdmin(t *testing.T) {
	gdb := openTestDB(t)
	releases := NewReleaseRepository(gdb)
	tracks := NewTrackRepository(gdb)
	news := NewNewsRepository(gdb)

	id, err := releases.Create(adminCtx(), releaseInput("Guarded", "2024-01-01"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := tracks.Create(adminCtx(), trackInput(id, 1, "Kept")); err != nil {
		t.Fatalf("track Create() error = %v", err)
	}

	tests := []struct {
		name      string
		ctx       context.Context
		anonymous bool
	}{
		{name: "anonymous", ctx: context.Background(), anonymous: true},
		{name: "user", ctx: userCtx(), anonymous: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checks := map[string]error{}
			_, checks["release create"] = releases.Create(tt.ctx, releaseInput("Sneaky", "2024-01-01"))
			checks["release update"] = releases.Update(tt.ctx, id, model.ReleaseInput{Title: str("Hacked")})
			checks["release delete"] = releases.Delete(tt.ctx, id)
			_, checks["track create"] = tracks.Create(tt.ctx, trackInput(id, 2, "Sneaky"))
			_, checks["track delete by release"] = tracks.DeleteByRelease(tt.ctx, id)
			_, checks["news create"] = news.Create(tt.ctx, model.NewsInput{Title: str("x"), Content: str("y")})
			for name, err := range checks {
				if !isAuthError(err, tt.anonymous) {
					t.Errorf("%s error = %v, want AuthorizationError{Anonymous: %v}", name, err, tt.anonymous)
				}
			}

			// Reads stay open.
			if _, err := releases.ListAll(tt.ctx); err != nil {
				t.Errorf("ListAll() error = %v", err)
			}
		})
	}

	got, _ := releases.GetByID(context.Background(), id)
	if got == nil || got.Title != "Guarded" {
		t.Errorf("release changed by denied writes: %+v", got)
	}
	all, _ := releases.ListAll(context.Background())
	if len(all) != 1 {
		t.Errorf("releases = %d, want 1", len(all))
	}
	list, _ := tracks.ListByRelease(context.Background(), id)
	if len(list) != 1 {
		t.Errorf("tracks = %d, want 1", len(list))
	}
	articles, _ := news.ListAll(context.Background())
	if len(articles) != 0 {
		t.Errorf("news = %d, want 0", len(articles))
	}
}

func TestAuthorizationCheckedBeforeValidation(t *testing.T) {
	releases := NewReleaseRepository(openTestDB(t))
	_, err := releases.Create(context.Background(), model.ReleaseInput{})
	if !isAuthError(err, true) {
		t.Errorf("Create(empty) as anonymous error = %v, want AuthorizationError", err)
	}
}

func TestTrackOrderingAndLeniency(t *testing.T) {
	gdb := openTestDB(t)
	tracks := NewTrackRepository(gdb)
	ctx := adminCtx()

	// No release 42 exists; the reference is not enforced.
	for _, tr := range []struct {
		number int
		title  string
	}{{3, "Three"}, {1, "One"}, {2, "Two"}, {2, "Two Again"}} {
		if _, err := tracks.Create(ctx, trackInput(42, tr.number, tr.title)); err != nil {
			t.Fatalf("Create(%s) error = %v", tr.title, err)
		}
	}

	list, err := tracks.ListByRelease(ctx, 42)
	if err != nil {
		t.Fatalf("ListByRelease() error = %v", err)
	}
	want := []string{"One", "Two", "Two Again", "Three"}
	if len(list) != len(want) {
		t.Fatalf("ListByRelease() len = %d, want %d", len(list), len(want))
	}
	for i, w := range want {
		if list[i].Title != w {
			t.Errorf("ListByRelease()[%d] = %s, want %s", i, list[i].Title, w)
		}
	}

	empty, err := tracks.ListByRelease(ctx, 7)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("ListByRelease(unknown) = %#v, %v; want empty non-nil slice", empty, err)
	}
}

func TestTrackUpdateAndDelete(t *testing.T) {
	gdb := openTestDB(t)
	tracks := NewTrackRepository(gdb)
	ctx := adminCtx()

	id, err := tracks.Create(ctx, trackInput(1, 1, "Demo"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := tracks.Update(ctx, id, model.TrackInput{Title: str("Master"), Length: str("12:05")}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ := tracks.GetByID(ctx, id)
	if got.Title != "Master" || got.Length != "12:05" || got.TrackNumber != 1 {
		t.Errorf("after Update() = %+v", got)
	}

	var ve *model.ValidationError
	if err := tracks.Update(ctx, id, model.TrackInput{Length: str("3:75")}); !errors.As(err, &ve) {
		t.Errorf("Update(bad length) error = %v, want ValidationError", err)
	}
	if err := tracks.Update(ctx, id, model.TrackInput{}); err != nil {
		t.Errorf("Update(empty) error = %v", err)
	}

	if err := tracks.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := tracks.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
	if n, err := tracks.DeleteByRelease(ctx, 1); err != nil || n != 0 {
		t.Errorf("DeleteByRelease(empty) = %d, %v; want 0, nil", n, err)
	}
}

func TestNewsLatest(t *testing.T) {
	gdb := openTestDB(t)
	news := NewNewsRepository(gdb)
	ctx := adminCtx()

	for _, a := range []struct{ title, date string }{
		{"January", "2024-01-10"},
		{"March", "2024-03-10"},
		{"February", "2024-02-10"},
	} {
		in := model.NewsInput{Title: str(a.title), Content: str("body"), PublishedAt: str(a.date)}
		if _, err := news.Create(ctx, in); err != nil {
			t.Fatalf("Create(%s) error = %v", a.title, err)
		}
	}

	latest, err := news.ListLatest(ctx, 2)
	if err != nil {
		t.Fatalf("ListLatest() error = %v", err)
	}
	if len(latest) != 2 || latest[0].Title != "March" || latest[1].Title != "February" {
		t.Errorf("ListLatest(2) = %+v, want March then February", latest)
	}
}

func TestNewsDefaultsPublishedAt(t *testing.T) {
	gdb := openTestDB(t)
	news := NewNewsRepository(gdb)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	news.now = func() time.Time { return fixed }
	ctx := adminCtx()

	id, err := news.Create(ctx, model.NewsInput{Title: str("Tour"), Content: str("Dates announced")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got, err := news.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !got.PublishedAt.Equal(fixed) {
		t.Errorf("PublishedAt = %v, want %v", got.PublishedAt, fixed)
	}

	if err := news.Update(ctx, id, model.NewsInput{Excerpt: str("short")}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ = news.GetByID(ctx, id)
	if got.Excerpt == nil || *got.Excerpt != "short" || got.Title != "Tour" {
		t.Errorf("after Update() = %+v", got)
	}

	if err := news.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := news.GetByID(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestNewsDefaultDateSortsWithExplicitDates(t *testing.T) {
	gdb := openTestDB(t)
	news := NewNewsRepository(gdb)
	eastern := time.FixedZone("EST", -5*60*60)
	news.now = func() time.Time { return time.Date(2024, 5, 1, 7, 0, 0, 0, eastern) }
	ctx := adminCtx()

	// An hour before the clock's instant, but later on the wall if zones are mixed.
	earlier := model.NewsInput{Title: str("Earlier"), Content: str("body"), PublishedAt: str("2024-05-01T11:00:00Z")}
	if _, err := news.Create(ctx, earlier); err != nil {
		t.Fatalf("Create(explicit) error = %v", err)
	}
	id, err := news.Create(ctx, model.NewsInput{Title: str("Now"), Content: str("body")})
	if err != nil {
		t.Fatalf("Create(default) error = %v", err)
	}

	got, err := news.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if want := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC); !got.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", got.PublishedAt, want)
	}

	latest, err := news.ListLatest(ctx, 2)
	if err != nil {
		t.Fatalf("ListLatest() error = %v", err)
	}
	if len(latest) != 2 || latest[0].Title != "Now" || latest[1].Title != "Earlier" {
		t.Errorf("ListLatest(2) = %+v, want Now then Earlier", latest)
	}
	all, err := news.ListAll(ctx)
	if err != nil || len(all) != 2 || all[0].Title != "Now" {
		t.Errorf("ListAll() = %+v, %v; want Now first", all, err)
	}
}

type stepClock struct{ t time.Time }

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func TestUserUpsert(t *testing.T) {
	gdb := openTestDB(t)
	users := NewUserRepository(gdb, "")
	clock := &stepClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	users.now = clock.now
	ctx := context.Background()

	first, err := users.Upsert(ctx, model.UserUpsert{OpenID: "abc", Name: str("A"), Email: str("a@example.com")})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if first.Role != model.RoleUser {
		t.Errorf("new user role = %s, want user", first.Role)
	}

	second, err := users.Upsert(ctx, model.UserUpsert{OpenID: "abc", Name: str("B")})
	if err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second Upsert() id = %d, want %d", second.ID, first.ID)
	}

	all, err := users.List(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("List() = %d users, %v; want 1", len(all), err)
	}
	stored, err := users.GetByOpenID(ctx, "abc")
	if err != nil {
		t.Fatalf("GetByOpenID() error = %v", err)
	}
	if stored.Name == nil || *stored.Name != "B" {
		t.Errorf("name = %v, want B", stored.Name)
	}
	if stored.Email == nil || *stored.Email != "a@example.com" {
		t.Errorf("email = %v, want the first login's", stored.Email)
	}
	if !stored.LastSignedIn.After(first.LastSignedIn) {
		t.Errorf("lastSignedIn %v not after %v", stored.LastSignedIn, first.LastSignedIn)
	}

	var ve *model.ValidationError
	if _, err := users.Upsert(ctx, model.UserUpsert{OpenID: ""}); !errors.As(err, &ve) {
		t.Errorf("Upsert(empty openId) error = %v, want ValidationError", err)
	}
}

func TestUserUpsertOwner(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()

	// Known before the owner is configured, then promoted on next login.
	plain := NewUserRepository(gdb, "")
	if _, err := plain.Upsert(ctx, model.UserUpsert{OpenID: "boss"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	users := NewUserRepository(gdb, "boss")
	u, err := users.Upsert(ctx, model.UserUpsert{OpenID: "boss", Name: str("Boss")})
	if err != nil {
		t.Fatalf("owner Upsert() error = %v", err)
	}
	if u.Role != model.RoleAdmin {
		t.Errorf("owner role = %s, want admin", u.Role)
	}

	fresh := NewUserRepository(openTestDB(t), "boss")
	u, err = fresh.Upsert(ctx, model.UserUpsert{OpenID: "boss"})
	if err != nil {
		t.Fatalf("fresh owner Upsert() error = %v", err)
	}
	if u.Role != model.RoleAdmin {
		t.Errorf("new owner role = %s, want admin", u.Role)
	}

	other, _ := users.Upsert(ctx, model.UserUpsert{OpenID: "guest"})
	if other.Role != model.RoleUser {
		t.Errorf("guest role = %s, want user", other.Role)
	}
}

func TestCreateOrTakeLoadsConcurrentLogin(t *testing.T) {
	gdb := openTestDB(t)
	users := NewUserRepository(gdb, "")
	ctx := context.Background()

	existing, err := users.Upsert(ctx, model.UserUpsert{OpenID: "ed", Name: str("Ed")})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// The row another login inserted after this one's lookup missed.
	late := model.User{OpenID: "ed", Role: model.RoleUser, LastSignedIn: time.Now().UTC()}
	var created bool
	err = gdb.Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = createOrTake(tx, &late)
		return err
	})
	if err != nil {
		t.Fatalf("createOrTake() error = %v", err)
	}
	if created {
		t.Error("createOrTake() created a duplicate openId")
	}
	if late.ID != existing.ID || late.Name == nil || *late.Name != "Ed" {
		t.Errorf("createOrTake() loaded %+v, want the stored user %d", late, existing.ID)
	}

	all, err := users.List(ctx)
	if err != nil || len(all) != 1 {
		t.Errorf("List() = %d users, %v; want 1", len(all), err)
	}
}

func TestUserSetRole(t *testing.T) {
	gdb := openTestDB(t)
	users := NewUserRepository(gdb, "")
	ctx := context.Background()

	if _, err := users.Upsert(ctx, model.UserUpsert{OpenID: "ed"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := users.SetRole(ctx, "ed", model.RoleAdmin); err != nil {
		t.Fatalf("SetRole() error = %v", err)
	}
	u, _ := users.GetByOpenID(ctx, "ed")
	if !u.IsAdmin() {
		t.Errorf("role = %s, want admin", u.Role)
	}
	if err := users.SetRole(ctx, "nobody", model.RoleAdmin); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetRole(unknown) error = %v, want ErrNotFound", err)
	}
	if err := users.SetRole(ctx, "ed", model.Role("root")); err == nil {
		t.Error("SetRole(root) succeeded")
	}
}

func TestNilDatabaseDegrades(t *testing.T) {
	ctx := adminCtx()
	releases := NewReleaseRepository(nil)
	tracks := NewTrackRepository(nil)
	news := NewNewsRepository(nil)
	users := NewUserRepository(nil, "")

	if list, err := releases.ListAll(ctx); err != nil || list == nil || len(list) != 0 {
		t.Errorf("releases.ListAll() = %#v, %v", list, err)
	}
	if list, err := releases.ListLatest(ctx, 3); err != nil || len(list) != 0 {
		t.Errorf("releases.ListLatest() = %#v, %v", list, err)
	}
	if list, err := tracks.ListByRelease(ctx, 1); err != nil || len(list) != 0 {
		t.Errorf("tracks.ListByRelease() = %#v, %v", list, err)
	}
	if list, err := news.ListAll(ctx); err != nil || len(list) != 0 {
		t.Errorf("news.ListAll() = %#v, %v", list, err)
	}
	if _, err := releases.GetByID(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("releases.GetByID() error = %v, want ErrNotFound", err)
	}
	if _, err := users.GetByOpenID(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("users.GetByOpenID() error = %v, want ErrNotFound", err)
	}

	if _, err := releases.Create(ctx, releaseInput("X", "2024-01-01")); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("releases.Create() error = %v, want ErrStorageUnavailable", err)
	}
	if err := tracks.Delete(ctx, 1); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("tracks.Delete() error = %v, want ErrStorageUnavailable", err)
	}
	if _, err := users.Upsert(ctx, model.UserUpsert{OpenID: "x"}); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("users.Upsert() error = %v, want ErrStorageUnavailable", err)
	}
}

func TestClosedDatabaseDegrades(t *testing.T) {
	gdb := openTestDB(t)
	releases := NewReleaseRepository(gdb)
	news := NewNewsRepository(gdb)
	users := NewUserRepository(gdb, "")
	ctx := adminCtx()

	id, err := releases.Create(ctx, releaseInput("Night Drive", "2024-01-01"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("DB() error = %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if list, err := releases.ListAll(ctx); err != nil || list == nil || len(list) != 0 {
		t.Errorf("releases.ListAll() = %#v, %v; want empty", list, err)
	}
	if list, err := news.ListLatest(ctx, 3); err != nil || len(list) != 0 {
		t.Errorf("news.ListLatest() = %#v, %v; want empty", list, err)
	}
	if _, err := releases.GetByID(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("releases.GetByID() error = %v, want ErrNotFound", err)
	}

	if _, err := releases.Create(ctx, releaseInput("Dawn", "2024-02-01")); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("releases.Create() error = %v, want ErrStorageUnavailable", err)
	}
	if err := releases.Delete(ctx, id); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("releases.Delete() error = %v, want ErrStorageUnavailable", err)
	}
	if _, err := users.Upsert(ctx, model.UserUpsert{OpenID: "x"}); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("users.Upsert() error = %v, want ErrStorageUnavailable", err)
	}
}
