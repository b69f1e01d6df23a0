package bot

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fstr21/sportsmcp/internal/boxscore"
	"github.com/fstr21/sportsmcp/internal/service"
)

// Telegram rejects messages longer than this.
const maxMessageLen = 4096

// Service is what the bot queries.
type Service interface {
	Summary(ctx context.Context, league, eventID string) (boxscore.Result, error)
	Scoreboard(ctx context.Context, league, date string) (*service.Scoreboard, error)
	LeagueKeys() []string
}

// Commands turns chat text into HTML replies.
type Commands struct {
	svc     Service
	timeout time.Duration
}

func NewCommands(svc Service, timeout time.Duration) *Commands {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Commands{svc: svc, timeout: timeout}
}

// Handle answers one message. The empty string means no reply.
func (c *Commands) Handle(ctx context.Context, text string) string {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 || !strings.HasPrefix(parts[0], "/") {
		return ""
	}
	// Group chats address commands as /cmd@BotName.
	command, _, _ := strings.Cut(strings.ToLower(parts[0]), "@")
	args := parts[1:]

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	switch command {
	case "/start", "/help":
		return c.help()
	case "/boxscore":
		if len(args) < 2 {
			return "Usage: /boxscore &lt;league&gt; &lt;eventID&gt; [team]"
		}
		return c.boxscore(ctx, args[0], args[1], strings.Join(args[2:], " "))
	case "/scores":
		if len(args) < 1 {
			return "Usage: /scores &lt;league&gt; [YYYYMMDD]"
		}
		date := ""
		if len(args) > 1 {
			date = args[1]
		}
		return c.scores(ctx, args[0], date)
	default:
		return "Unknown command. Use /help to see available commands."
	}
}

func (c *Commands) help() string {
	return fmt.Sprintf(`<b>Boxscore Bot</b>

/boxscore &lt;league&gt; &lt;eventID&gt; [team] - normalized boxscore
/scores &lt;league&gt; [YYYYMMDD] - games and event IDs
/help - this message

Leagues: %s`, html.EscapeString(strings.Join(c.svc.LeagueKeys(), ", ")))
}

func (c *Commands) boxscore(ctx context.Context, league, eventID, team string) string {
	res, err := c.svc.Summary(ctx, league, eventID)
	if err != nil {
		return errorText(err)
	}
	res = boxscore.FilterTeam(res, team)

	var b strings.Builder
	for _, line := range boxscore.Leaders(res) {
		b.WriteString("<b>" + html.EscapeString(line) + "</b>\n")
	}

	var table bytes.Buffer
	if err := boxscore.Render(&table, res); err != nil {
		return errorText(err)
	}
	b.WriteString("<pre>" + html.EscapeString(strings.TrimSpace(table.String())) + "</pre>")
	return truncate(b.String())
}

func (c *Commands) scores(ctx context.Context, league, date string) string {
	sb, err := c.svc.Scoreboard(ctx, league, date)
	if err != nil {
		return errorText(err)
	}
	if len(sb.Events) == 0 {
		return "No games found."
	}

	var b strings.Builder
	for _, ev := range sb.Events {
		name := ev.ShortName
		if name == "" {
			name = ev.Name
		}
		line := name
		if ev.Status != service.StatusScheduled {
			line += fmt.Sprintf("  %s-%s", ev.Away.Score, ev.Home.Score)
		}
		if ev.Detail != "" {
			line += "  " + ev.Detail
		}
		fmt.Fprintf(&b, "%s  <code>%s</code>\n", html.EscapeString(line), html.EscapeString(ev.ID))
	}
	return truncate(strings.TrimSpace(b.String()))
}

func errorText(err error) string {
	return "Error: " + html.EscapeString(err.Error())
}

// truncate keeps a reply under the Telegram limit without splitting a rune,
// an HTML entity or a tag, closing an open <pre>.
func truncate(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	const tail = "\n…</pre>"
	n := maxMessageLen - len(tail)
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	cut := s[:n]
	if i := strings.LastIndexByte(cut, '&'); i > strings.LastIndexByte(cut, ';') {
		cut = cut[:i]
	}
	if i := strings.LastIndexByte(cut, '<'); i > strings.LastIndexByte(cut, '>') {
		cut = cut[:i]
	}
	if open := strings.LastIndex(cut, "<pre>"); open >= 0 && !strings.Contains(cut[open:], "</pre>") {
		return cut + tail
	}
	return cut
}
