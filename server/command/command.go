// Package command handles the /autodelete chat command surface.
package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/melodelete/autodelete/server/app"
	"github.com/melodelete/autodelete/server/bot"
	"github.com/melodelete/autodelete/server/discord"
)

const helpText = "###### Auto-delete - Command Help\n" +
	"* `/autodelete ping` - Check if the auto-delete bot is up.\n" +
	"* `/autodelete config [hours=N] [messages=N]` - View or set this channel's auto-delete settings.\n" +
	"* `/autodelete clear` - Remove this channel from auto-delete.\n" +
	"* `/autodelete serverconfig [scandelay=N] [bulkmin=N]` - View or set the server-wide settings.\n" +
	"* `/autodelete rolelist` - List roles allowed to issue bot commands.\n" +
	"* `/autodelete roleadd <role>` - Allow a role to issue bot commands.\n" +
	"* `/autodelete roledel <role>` - Disallow a role from issuing bot commands.\n" +
	"* `/autodelete status` - Show deletable-message estimates from the last scan.\n" +
	"* `/autodelete refresh` - Run a scan cycle now.\n"

// GuildInfo is the slice of the platform client needed for permission
// checks.
type GuildInfo interface {
	Guild(ctx context.Context, id uint64) (*discord.Guild, error)
	GuildRoles(ctx context.Context, guildID uint64) ([]discord.Role, error)
}

// ScanService is the slice of the scanner the commands drive.
type ScanService interface {
	Refresh(ctx context.Context) (app.Report, error)
	LastReport() app.Report
	Estimate(ctx context.Context, channelID uint64) (int, error)
}

// Args carries one received command invocation.
type Args struct {
	Command   string
	GuildID   uint64
	ChannelID uint64
	UserID    uint64
	RoleIDs   []uint64
}

// Runner handles commands.
type Runner struct {
	args    Args
	store   app.PolicyStore
	scanner ScanService
	guilds  GuildInfo
	logger  bot.Logger
	poster  bot.Poster
}

// NewCommandRunner creates a command runner for one invocation.
func NewCommandRunner(args Args, store app.PolicyStore, scanner ScanService, guilds GuildInfo, logger bot.Logger, poster bot.Poster) *Runner {
	return &Runner{
		args:    args,
		store:   store,
		scanner: scanner,
		guilds:  guilds,
		logger:  logger,
		poster:  poster,
	}
}

func (r *Runner) isValid() error {
	if r.store == nil || r.scanner == nil || r.guilds == nil || r.poster == nil {
		return errors.New("invalid arguments to command.Runner")
	}
	return nil
}

// Execute should be called with every command message received from the
// gateway.
func (r *Runner) Execute(ctx context.Context) error {
	if err := r.isValid(); err != nil {
		return err
	}

	split := strings.Fields(r.args.Command)
	if len(split) == 0 || split[0] != "/autodelete" {
		return nil
	}

	cmd := ""
	parameters := []string{}
	if len(split) > 1 {
		cmd = split[1]
	}
	if len(split) > 2 {
		parameters = split[2:]
	}

	if cmd == "ping" {
		r.post(ctx, "Hi there! I am currently up.")
		return nil
	}

	allowed, err := r.callerAllowed(ctx)
	if err != nil {
		r.logger.Errorf("failed to check command permissions: %v", err)
		r.post(ctx, "Could not verify your permissions; try again later.")
		return nil
	}
	if !allowed {
		r.post(ctx, "You don't have permission to run this command.")
		return nil
	}

	switch cmd {
	case "config":
		r.actionConfig(ctx, parameters)
	case "clear":
		r.actionClear(ctx)
	case "serverconfig":
		r.actionServerConfig(ctx, parameters)
	case "rolelist":
		r.actionRoleList(ctx)
	case "roleadd":
		r.actionRoleAdd(ctx, parameters)
	case "roledel":
		r.actionRoleDel(ctx, parameters)
	case "status":
		r.actionStatus(ctx)
	case "refresh":
		r.actionRefresh(ctx)
	default:
		r.post(ctx, helpText)
	}

	return nil
}

// callerAllowed implements the command gate: the guild owner is always
// allowed; everyone else needs one of the stored allowed roles, matched by
// role id or role name.
func (r *Runner) callerAllowed(ctx context.Context) (bool, error) {
	guild, err := r.guilds.Guild(ctx, r.args.GuildID)
	if err != nil {
		return false, err
	}
	if guild.OwnerID == r.args.UserID {
		return true, nil
	}

	allowed, err := r.store.AllowedRoles()
	if err != nil {
		return false, err
	}
	if len(allowed) == 0 {
		return false, nil
	}

	guildRoles, err := r.guilds.GuildRoles(ctx, r.args.GuildID)
	if err != nil {
		return false, err
	}
	nameByID := make(map[uint64]string, len(guildRoles))
	for _, role := range guildRoles {
		nameByID[role.ID] = role.Name
	}

	for _, roleID := range r.args.RoleIDs {
		for _, entry := range allowed {
			if entry == strconv.FormatUint(roleID, 10) || entry == nameByID[roleID] {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *Runner) post(ctx context.Context, text string) {
	if err := r.poster.Post(ctx, r.args.ChannelID, text); err != nil {
		r.logger.Errorf("failed to post command response: %v", err)
	}
}

func (r *Runner) actionConfig(ctx context.Context, params []string) {
	hours, messages, err := parseConfigParams(params)
	if err != nil {
		r.post(ctx, err.Error())
		return
	}

	if hours == nil && messages == nil {
		policy, err := r.store.ChannelPolicy(r.args.ChannelID)
		if err != nil {
			r.logger.Errorf("failed to read channel policy: %v", err)
			r.post(ctx, "Could not read this channel's settings.")
			return
		}
		if policy == nil {
			r.post(ctx, "This channel is not configured for auto-delete.")
			return
		}

		threshold := "Not set"
		if policy.TimeThreshold != nil {
			threshold = fmt.Sprintf("%d hours", *policy.TimeThreshold/60)
		}
		maxMessages := "Not set"
		if policy.MaxMessages != nil {
			maxMessages = strconv.Itoa(*policy.MaxMessages)
		}
		r.post(ctx, fmt.Sprintf("Current settings for this channel:\n- Time threshold: %s\n- Max messages: %s", threshold, maxMessages))
		return
	}

	var timeThreshold *int
	if hours != nil {
		minutes := *hours * 60
		timeThreshold = &minutes
	}

	if err := r.store.SetChannel(r.args.ChannelID, timeThreshold, messages); err != nil {
		r.logger.Errorf("failed to set channel policy: %v", err)
		r.post(ctx, "Could not update this channel's settings.")
		return
	}

	switch {
	case hours != nil && messages != nil:
		r.post(ctx, fmt.Sprintf("Auto-delete settings for this channel have been updated: messages older than %d hours will be deleted, and there will be a maximum of %d messages.", *hours, *messages))
	case hours != nil:
		r.post(ctx, fmt.Sprintf("Auto-delete settings for this channel have been updated: messages older than %d hours will be deleted.", *hours))
	default:
		r.post(ctx, fmt.Sprintf("Auto-delete settings for this channel have been updated: there will be a maximum of %d messages.", *messages))
	}
}

func (r *Runner) actionClear(ctx context.Context) {
	if err := r.store.ClearChannel(r.args.ChannelID); err != nil {
		r.logger.Errorf("failed to clear channel policy: %v", err)
		r.post(ctx, "Could not update this channel's settings.")
		return
	}
	r.post(ctx, "This channel has been removed from auto-delete.")
}

func (r *Runner) actionServerConfig(ctx context.Context, params []string) {
	scandelay, bulkmin, err := parseServerConfigParams(params)
	if err != nil {
		r.post(ctx, err.Error())
		return
	}

	if scandelay == nil && bulkmin == nil {
		interval, err1 := r.store.ScanInterval()
		min, err2 := r.store.BulkDeleteMin()
		if err1 != nil || err2 != nil {
			r.logger.Errorf("failed to read server settings: %v %v", err1, err2)
			r.post(ctx, "Could not read the server-wide settings.")
			return
		}
		r.post(ctx, fmt.Sprintf("Current server-wide settings:\n- %d minutes between scans for messages to delete\n- %d deletable messages required for Bulk Delete Messages", interval, min))
		return
	}

	updates := ""
	if scandelay != nil {
		if err := r.store.SetScanInterval(*scandelay); err != nil {
			r.logger.Errorf("failed to set scan interval: %v", err)
			r.post(ctx, "Could not update the server-wide settings.")
			return
		}
		updates += fmt.Sprintf("\n- %d minutes between scans for messages to delete", *scandelay)
	}
	if bulkmin != nil {
		if err := r.store.SetBulkDeleteMin(*bulkmin); err != nil {
			r.logger.Errorf("failed to set bulk delete minimum: %v", err)
			r.post(ctx, "Could not update the server-wide settings.")
			return
		}
		updates += fmt.Sprintf("\n- %d deletable messages required for Bulk Delete Messages", *bulkmin)
	}
	r.post(ctx, "Server-wide settings have been updated:"+updates)
}

func (r *Runner) actionRoleList(ctx context.Context) {
	roles, err := r.store.AllowedRoles()
	if err != nil {
		r.logger.Errorf("failed to list allowed roles: %v", err)
		r.post(ctx, "Could not read the allowed roles.")
		return
	}
	if len(roles) == 0 {
		r.post(ctx, "No roles are allowed to issue bot commands; only the server owner can.")
		return
	}
	r.post(ctx, "Roles allowed to issue bot commands:\n- "+strings.Join(roles, "\n- "))
}

func (r *Runner) actionRoleAdd(ctx context.Context, params []string) {
	if len(params) != 1 {
		r.post(ctx, "Usage: /autodelete roleadd <role name or id>")
		return
	}
	if err := r.store.AddAllowedRole(params[0]); err != nil {
		r.logger.Errorf("failed to add allowed role: %v", err)
		r.post(ctx, "Could not update the allowed roles.")
		return
	}
	r.post(ctx, fmt.Sprintf("Role %q may now issue bot commands.", params[0]))
}

func (r *Runner) actionRoleDel(ctx context.Context, params []string) {
	if len(params) != 1 {
		r.post(ctx, "Usage: /autodelete roledel <role name or id>")
		return
	}
	if err := r.store.RemoveAllowedRole(params[0]); err != nil {
		r.logger.Errorf("failed to remove allowed role: %v", err)
		r.post(ctx, "Could not update the allowed roles.")
		return
	}
	r.post(ctx, fmt.Sprintf("Role %q may no longer issue bot commands.", params[0]))
}

func (r *Runner) actionStatus(ctx context.Context) {
	report := r.scanner.LastReport()
	if report.StartedAt.IsZero() {
		r.post(ctx, "No scan has completed yet.")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Last scan started %s and took %s:\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"), report.Took.Round(0))
	for _, ch := range report.Channels {
		if ch.Error != "" {
			fmt.Fprintf(&b, "- #%s (ID: %d): error: %s\n", ch.Name, ch.ChannelID, ch.Error)
			continue
		}
		fmt.Fprintf(&b, "- #%s (ID: %d): %d messages to delete\n", ch.Name, ch.ChannelID, ch.Deletable)
	}
	r.post(ctx, b.String())
}

func (r *Runner) actionRefresh(ctx context.Context) {
	r.post(ctx, "Starting a scan cycle now.")
	report, err := r.scanner.Refresh(ctx)
	if err != nil {
		r.logger.Errorf("manual refresh failed: %v", err)
		r.post(ctx, "The scan cycle failed; see the service logs.")
		return
	}
	r.post(ctx, fmt.Sprintf("Scan cycle finished across %d channels.", len(report.Channels)))
}

func parseConfigParams(params []string) (hours, messages *int, err error) {
	for _, p := range params {
		key, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, nil, errors.Errorf("Malformed parameter %q; expected hours=N or messages=N.", p)
		}
		n, convErr := strconv.Atoi(value)
		if convErr != nil || n < 0 {
			return nil, nil, errors.Errorf("Malformed value %q; expected a non-negative number.", value)
		}
		switch key {
		case "hours":
			hours = &n
		case "messages":
			messages = &n
		default:
			return nil, nil, errors.Errorf("Unknown parameter %q; expected hours=N or messages=N.", key)
		}
	}
	return hours, messages, nil
}

func parseServerConfigParams(params []string) (scandelay, bulkmin *int, err error) {
	for _, p := range params {
		key, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, nil, errors.Errorf("Malformed parameter %q; expected scandelay=N or bulkmin=N.", p)
		}
		n, convErr := strconv.Atoi(value)
		if convErr != nil || n < 2 {
			return nil, nil, errors.Errorf("Malformed value %q; expected a number of at least 2.", value)
		}
		switch key {
		case "scandelay":
			scandelay = &n
		case "bulkmin":
			bulkmin = &n
		default:
			return nil, nil, errors.Errorf("Unknown parameter %q; expected scandelay=N or bulkmin=N.", key)
		}
	}
	return scandelay, bulkmin, nil
}
