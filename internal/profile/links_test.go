package profile

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"linkfolio_backend/internal/common"
)

func setupLinkEditorTest(t *testing.T) (*LinkEditor, Repository) {
	t.Helper()

	// A named shared-cache DSN keeps GORM's pooled connections on the same
	// in-memory database while isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&Profile{}), "Failed to migrate database")

	repo := NewGORMRepository(db)
	return NewLinkEditor(repo, zap.NewNop()), repo
}

func seedProfile(t *testing.T, repo Repository, id string) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &Profile{
		ID:          id,
		Username:    "user_" + id,
		Email:       id + "@example.com",
		SocialLinks: SocialLinks{},
	}))
}

func TestLinkEditor_SetLink_RoundTrips(t *testing.T) {
	editor, _ := setupLinkEditorTest(t)
	ctx := context.Background()
	seedProfile(t, editor.repo, "uid-1")

	prof, err := editor.SetLink(ctx, "uid-1", "instagram", "@jane")
	require.NoError(t, err)
	assert.Equal(t, "@jane", prof.SocialLinks["instagram"])

	// A second platform does not disturb the first.
	prof, err = editor.SetLink(ctx, "uid-1", "tiktok", "jane.t")
	require.NoError(t, err)
	assert.Equal(t, "@jane", prof.SocialLinks["instagram"])
	assert.Equal(t, "jane.t", prof.SocialLinks["tiktok"])

	// Overwrite replaces the handle.
	prof, err = editor.SetLink(ctx, "uid-1", "instagram", "@jane_new")
	require.NoError(t, err)
	assert.Equal(t, "@jane_new", prof.SocialLinks["instagram"])
	assert.Len(t, prof.SocialLinks, 2)
}

func TestLinkEditor_SetLink_TrimsAndValidates(t *testing.T) {
	editor, _ := setupLinkEditorTest(t)
	ctx := context.Background()
	seedProfile(t, editor.repo, "uid-1")

	prof, err := editor.SetLink(ctx, "uid-1", "youtube", "  jane  ")
	require.NoError(t, err)
	assert.Equal(t, "jane", prof.SocialLinks["youtube"])

	_, err = editor.SetLink(ctx, "uid-1", "youtube", "   ")
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrBadRequest.Code, apiErr.Code)

	_, err = editor.SetLink(ctx, "uid-1", "  ", "jane")
	require.Error(t, err)
}

func TestLinkEditor_SetLink_AcceptsFreeFormPlatform(t *testing.T) {
	editor, _ := setupLinkEditorTest(t)
	seedProfile(t, editor.repo, "uid-1")

	prof, err := editor.SetLink(context.Background(), "uid-1", "my_blog", "https://blog.example")
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example", prof.SocialLinks["my_blog"])
	assert.False(t, IsKnownPlatform("my_blog"))
	assert.True(t, IsKnownPlatform("instagram"))
}

func TestLinkEditor_DeleteLink(t *testing.T) {
	editor, _ := setupLinkEditorTest(t)
	ctx := context.Background()
	seedProfile(t, editor.repo, "uid-1")

	_, err := editor.SetLink(ctx, "uid-1", "instagram", "@jane")
	require.NoError(t, err)
	_, err = editor.SetLink(ctx, "uid-1", "tiktok", "jane.t")
	require.NoError(t, err)

	prof, err := editor.DeleteLink(ctx, "uid-1", "instagram")
	require.NoError(t, err)
	_, has := prof.SocialLinks["instagram"]
	assert.False(t, has)
	assert.Equal(t, "jane.t", prof.SocialLinks["tiktok"])

	// Deleting an absent platform succeeds and changes nothing.
	prof, err = editor.DeleteLink(ctx, "uid-1", "instagram")
	require.NoError(t, err)
	assert.Len(t, prof.SocialLinks, 1)
}

func TestLinkEditor_UnknownProfile(t *testing.T) {
	editor, _ := setupLinkEditorTest(t)

	_, err := editor.SetLink(context.Background(), "ghost", "instagram", "@x")
	require.Error(t, err)
	assert.True(t, common.IsNotFound(err))
}

func TestLinkEditor_ConcurrentWritesDoNotDropEntries(t *testing.T) {
	editor, repo := setupLinkEditorTest(t)
	ctx := context.Background()
	seedProfile(t, repo, "uid-1")

	platforms := []string{"instagram", "tiktok", "youtube", "twitter", "facebook", "whatsapp", "email"}

	var wg sync.WaitGroup
	for _, platform := range platforms {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			_, err := editor.SetLink(ctx, "uid-1", p, "handle-"+p)
			assert.NoError(t, err)
		}(platform)
	}
	wg.Wait()

	stored, err := repo.FindByID(ctx, "uid-1")
	require.NoError(t, err)
	require.Len(t, stored.SocialLinks, len(platforms), "every concurrent write must survive")
	for _, p := range platforms {
		assert.Equal(t, "handle-"+p, stored.SocialLinks[p])
	}
}
