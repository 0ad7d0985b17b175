package command_test

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodelete/autodelete/server/app"
	mock_app "github.com/melodelete/autodelete/server/app/mocks"
	"github.com/melodelete/autodelete/server/bot"
	mock_bot "github.com/melodelete/autodelete/server/bot/mocks"
	"github.com/melodelete/autodelete/server/command"
	"github.com/melodelete/autodelete/server/discord"
)

const (
	guildID   = uint64(900)
	channelID = uint64(42)
	ownerID   = uint64(1)
	memberID  = uint64(2)
)

type fakeGuilds struct {
	roles []discord.Role
}

func (f *fakeGuilds) Guild(context.Context, uint64) (*discord.Guild, error) {
	return &discord.Guild{ID: guildID, Name: "testing", OwnerID: ownerID}, nil
}

func (f *fakeGuilds) GuildRoles(context.Context, uint64) ([]discord.Role, error) {
	return f.roles, nil
}

type fakeScanner struct {
	report     app.Report
	refreshErr error
}

func (f *fakeScanner) Refresh(context.Context) (app.Report, error) {
	return f.report, f.refreshErr
}

func (f *fakeScanner) LastReport() app.Report { return f.report }

func (f *fakeScanner) Estimate(context.Context, uint64) (int, error) { return 0, nil }

type env struct {
	store   *mock_app.MockPolicyStore
	guilds  *fakeGuilds
	scanner *fakeScanner
	posts   *[]string
}

func (e *env) run(t *testing.T, args command.Args) {
	t.Helper()
	ctrl := gomock.NewController(t)
	poster := mock_bot.NewMockPoster(ctrl)
	poster.EXPECT().
		Post(gomock.Any(), channelID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uint64, text string) error {
			*e.posts = append(*e.posts, text)
			return nil
		}).
		AnyTimes()

	logger := bot.NewLogger(log.New(io.Discard, "", 0), false)
	runner := command.NewCommandRunner(args, e.store, e.scanner, e.guilds, logger, poster)
	require.NoError(t, runner.Execute(context.Background()))
}

func newEnv(t *testing.T) *env {
	ctrl := gomock.NewController(t)
	posts := []string{}
	return &env{
		store:   mock_app.NewMockPolicyStore(ctrl),
		guilds:  &fakeGuilds{},
		scanner: &fakeScanner{},
		posts:   &posts,
	}
}

func ownerArgs(cmd string) command.Args {
	return command.Args{Command: cmd, GuildID: guildID, ChannelID: channelID, UserID: ownerID}
}

func TestExecutePermissions(t *testing.T) {
	t.Run("ping needs no permission", func(t *testing.T) {
		e := newEnv(t)
		e.run(t, command.Args{Command: "/autodelete ping", GuildID: guildID, ChannelID: channelID, UserID: memberID})

		require.Len(t, *e.posts, 1)
		assert.Equal(t, "Hi there! I am currently up.", (*e.posts)[0])
	})

	t.Run("unrelated messages are ignored", func(t *testing.T) {
		e := newEnv(t)
		e.run(t, command.Args{Command: "hello world", GuildID: guildID, ChannelID: channelID, UserID: ownerID})
		assert.Empty(t, *e.posts)
	})

	t.Run("the owner is always allowed", func(t *testing.T) {
		e := newEnv(t)
		e.store.EXPECT().ClearChannel(channelID).Return(nil)

		e.run(t, ownerArgs("/autodelete clear"))
		require.Len(t, *e.posts, 1)
		assert.Equal(t, "This channel has been removed from auto-delete.", (*e.posts)[0])
	})

	t.Run("a member without an allowed role is denied", func(t *testing.T) {
		e := newEnv(t)
		e.store.EXPECT().AllowedRoles().Return([]string{"Moderators"}, nil)
		e.guilds.roles = []discord.Role{{ID: 500, Name: "Members"}}

		e.run(t, command.Args{Command: "/autodelete clear", GuildID: guildID, ChannelID: channelID, UserID: memberID, RoleIDs: []uint64{500}})
		require.Len(t, *e.posts, 1)
		assert.Equal(t, "You don't have permission to run this command.", (*e.posts)[0])
	})

	t.Run("an allowed role matches by name", func(t *testing.T) {
		e := newEnv(t)
		e.store.EXPECT().AllowedRoles().Return([]string{"Moderators"}, nil)
		e.store.EXPECT().ClearChannel(channelID).Return(nil)
		e.guilds.roles = []discord.Role{{ID: 500, Name: "Moderators"}}

		e.run(t, command.Args{Command: "/autodelete clear", GuildID: guildID, ChannelID: channelID, UserID: memberID, RoleIDs: []uint64{500}})
		require.Len(t, *e.posts, 1)
		assert.Equal(t, "This channel has been removed from auto-delete.", (*e.posts)[0])
	})

	t.Run("an allowed role matches by id", func(t *testing.T) {
		e := newEnv(t)
		e.store.EXPECT().AllowedRoles().Return([]string{"500"}, nil)
		e.store.EXPECT().ClearChannel(channelID).Return(nil)
		e.guilds.roles = []discord.Role{{ID: 500, Name: "Moderators"}}

		e.run(t, command.Args{Command: "/autodelete clear", GuildID: guildID, ChannelID: channelID, UserID: memberID, RoleIDs: []uint64{500}})
		require.Len(t, *e.posts, 1)
		assert.Equal(t, "This channel has been removed from auto-delete.", (*e.posts)[0])
	})
}

func TestActionConfig(t *testing.T) {
	t.Run("set hours and messages", func(t *testing.T) {
		e := newEnv(t)
		e.store.EXPECT().
			SetChannel(channelID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ uint64, timeThreshold, maxMessages *int) error {
				require.NotNil(t, timeThreshold)
				require.NotNil(t, maxMessages)
				assert.Equal(t, 120, *timeThreshold)
				assert.Equal(t, 50, *maxMessages)
				return nil
			})

		e.run(t, ownerArgs("/autodelete config hours=2 messages=50"))
		require.Len(t, *e.posts, 1)
		assert.Contains(t, (*e.posts)[0], "older than 2 hours")
		assert.Contains(t, (*e.posts)[0], "maximum of 50 messages")
	})

	t.Run("set hours only leaves messages unset", func(t *testing.T) {
		e := newEnv(t)
		e.store.EXPECT().
			SetChannel(channelID, gomock.Any(), nil).
			DoAndReturn(func(_ uint64, timeThreshold, _ *int) error {
				require.NotNil(t, timeThreshold)
				assert.Equal(t, 720, *timeThreshold)
				return nil
			})

		e.run(t, ownerArgs("/autodelete config hours=12"))
		require.Len(t, *e.posts, 1)
		assert.Contains(t, (*e.posts)[0], "older than 12 hours")
	})

	t.Run("view shows the stored policy in hours", func(t *testing.T) {
		e := newEnv(t)
		threshold, max := 120, 50
		e.store.EXPECT().
			ChannelPolicy(channelID).
			Return(&app.ChannelPolicy{TimeThreshold: &threshold, MaxMessages: &max}, nil)

		e.run(t, ownerArgs("/autodelete config"))
		require.Len(t, *e.posts, 1)
		assert.Contains(t, (*e.posts)[0], "Time threshold: 2 hours")
		assert.Contains(t, (*e.posts)[0], "Max messages: 50")
	})

	t.Run("view on an unconfigured channel", func(t *testing.T) {
		e := newEnv(t)
		e.store.EXPECT().ChannelPolicy(channelID).Return(nil, nil)

		e.run(t, ownerArgs("/autodelete config"))
		require.Len(t, *e.posts, 1)
		assert.Equal(t, "This channel is not configured for auto-delete.", (*e.posts)[0])
	})

	t.Run("malformed parameters are rejected", func(t *testing.T) {
		e := newEnv(t)

		e.run(t, ownerArgs("/autodelete config hours=abc"))
		require.Len(t, *e.posts, 1)
		assert.Contains(t, (*e.posts)[0], "Malformed value")
	})

	t.Run("unknown parameters are rejected", func(t *testing.T) {
		e := newEnv(t)

		e.run(t, ownerArgs("/autodelete config minutes=5"))
		require.Len(t, *e.posts, 1)
		assert.Contains(t, (*e.posts)[0], "Unknown parameter")
	})
}

func TestActionServerConfig(t *testing.T) {
	t.Run("view", func(t *testing.T) {
		e := newEnv(t)
		e.store.EXPECT().ScanInterval().Return(2, nil)
		e.store.EXPECT().BulkDeleteMin().Return(100, nil)

		e.run(t, ownerArgs("/autodelete serverconfig"))
		require.Len(t, *e.posts, 1)
		assert.Contains(t, (*e.posts)[0], "2 minutes between scans")
		assert.Contains(t, (*e.posts)[0], "100 deletable messages")
	})

	t.Run("set both values", func(t *testing.T) {
		e := newEnv(t)
		e.store.EXPECT().SetScanInterval(5).Return(nil)
		e.store.EXPECT().SetBulkDeleteMin(20).Return(nil)

		e.run(t, ownerArgs("/autodelete serverconfig scandelay=5 bulkmin=20"))
		require.Len(t, *e.posts, 1)
		assert.Contains(t, (*e.posts)[0], "5 minutes between scans")
		assert.Contains(t, (*e.posts)[0], "20 deletable messages")
	})

	t.Run("values below two are rejected", func(t *testing.T) {
		e := newEnv(t)

		e.run(t, ownerArgs("/autodelete serverconfig scandelay=1"))
		require.Len(t, *e.posts, 1)
		assert.Contains(t, (*e.posts)[0], "at least 2")
	})
}

func TestActionRoles(t *testing.T) {
	t.Run("rolelist with no roles", func(t *testing.T) {
		e := newEnv(t)
		e.store.EXPECT().AllowedRoles().Return([]string{}, nil)

		e.run(t, ownerArgs("/autodelete rolelist"))
		require.Len(t, *e.posts, 1)
		assert.Contains(t, (*e.posts)[0], "only the server owner")
	})

	t.Run("roleadd", func(t *testing.T) {
		e := newEnv(t)
		e.store.EXPECT().AddAllowedRole("Moderators").Return(nil)

		e.run(t, ownerArgs("/autodelete roleadd Moderators"))
		require.Len(t, *e.posts, 1)
		assert.Contains(t, (*e.posts)[0], `"Moderators" may now issue`)
	})

	t.Run("roledel", func(t *testing.T) {
		e := newEnv(t)
		e.store.EXPECT().RemoveAllowedRole("Moderators").Return(nil)

		e.run(t, ownerArgs("/autodelete roledel Moderators"))
		require.Len(t, *e.posts, 1)
		assert.Contains(t, (*e.posts)[0], `"Moderators" may no longer issue`)
	})

	t.Run("roleadd without a role shows usage", func(t *testing.T) {
		e := newEnv(t)

		e.run(t, ownerArgs("/autodelete roleadd"))
		require.Len(t, *e.posts, 1)
		assert.Contains(t, (*e.posts)[0], "Usage:")
	})
}

func TestActionStatus(t *testing.T) {
	t.Run("before the first scan", func(t *testing.T) {
		e := newEnv(t)

		e.run(t, ownerArgs("/autodelete status"))
		require.Len(t, *e.posts, 1)
		assert.Equal(t, "No scan has completed yet.", (*e.posts)[0])
	})

	t.Run("after a scan", func(t *testing.T) {
		e := newEnv(t)
		e.scanner.report = app.Report{
			StartedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			Took:      3 * time.Second,
			Channels: []app.ChannelReport{
				{ChannelID: 42, Name: "general", Deletable: 7},
				{ChannelID: 7, Name: "broken", Error: "boom"},
			},
		}

		e.run(t, ownerArgs("/autodelete status"))
		require.Len(t, *e.posts, 1)
		assert.Contains(t, (*e.posts)[0], "#general (ID: 42): 7 messages to delete")
		assert.Contains(t, (*e.posts)[0], "#broken (ID: 7): error: boom")
	})
}

func TestActionRefresh(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		e := newEnv(t)
		e.scanner.report = app.Report{Channels: []app.ChannelReport{{ChannelID: 42}}}

		e.run(t, ownerArgs("/autodelete refresh"))
		require.Len(t, *e.posts, 2)
		assert.Equal(t, "Starting a scan cycle now.", (*e.posts)[0])
		assert.Equal(t, "Scan cycle finished across 1 channels.", (*e.posts)[1])
	})

	t.Run("failure", func(t *testing.T) {
		e := newEnv(t)
		e.scanner.refreshErr = errors.New("boom")

		e.run(t, ownerArgs("/autodelete refresh"))
		require.Len(t, *e.posts, 2)
		assert.Contains(t, (*e.posts)[1], "failed")
	})
}

func TestUnknownCommandShowsHelp(t *testing.T) {
	e := newEnv(t)

	e.run(t, ownerArgs("/autodelete wat"))
	require.Len(t, *e.posts, 1)
	assert.Contains(t, (*e.posts)[0], "Command Help")
}
