package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/loyalty/internal/client/auth"
	"github.com/iudanet/loyalty/internal/client/data"
	"github.com/iudanet/loyalty/internal/client/imagecache"
	"github.com/iudanet/loyalty/internal/client/iocli"
	pkgapi "github.com/iudanet/loyalty/pkg/api"
)

// ErrUsage - неверные аргументы команды
var ErrUsage = errors.New("invalid usage")

// AuthService - вход и состояние сессии
type AuthService interface {
	RequestCode(ctx context.Context, phone, pushToken string) (*pkgapi.RequestCodeResponse, error)
	VerifyCode(ctx context.Context, phone, code string) (*pkgapi.User, error)
	CompleteRegistration(ctx context.Context, phone, fullName string) (*pkgapi.User, error)
	Logout(ctx context.Context)
	Status(ctx context.Context) (*auth.Status, error)
}

// DataService - данные экранов приложения
type DataService interface {
	Dashboard(ctx context.Context) (*data.Dashboard, error)
	Card(ctx context.Context) (*data.Card, error)
	Notifications(ctx context.Context, limit, offset int) (*pkgapi.NotificationsResponse, error)
	Notification(ctx context.Context, id int64) (*pkgapi.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) error
	Profile(ctx context.Context) (*pkgapi.User, error)
	UpdateProfile(ctx context.Context, req pkgapi.UpdateProfileRequest) (*pkgapi.User, error)
	UpdatePushToken(ctx context.Context, pushToken string) error
}

// ImageCache - локальный кэш изображений
type ImageCache interface {
	GetCachedImage(ctx context.Context, url string) string
	ClearCache(ctx context.Context) error
	Stats() imagecache.Stats
}

type Cli struct {
	io          iocli.IO
	authService AuthService
	dataService DataService
	images      ImageCache
}

func New(io iocli.IO, authService AuthService, dataService DataService, images ImageCache) *Cli {
	return &Cli{
		io:          io,
		authService: authService,
		dataService: dataService,
		images:      images,
	}
}

// Run выполняет команду args[0] с аргументами args[1:]
func (c *Cli) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.PrintUsage()
		return ErrUsage
	}

	command, rest := args[0], args[1:]
	switch command {
	case "login":
		return c.runLogin(ctx, rest)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "home":
		return c.runHome(ctx)
	case "card":
		return c.runCard(ctx)
	case "profile":
		return c.runProfile(ctx)
	case "profile-edit":
		return c.runProfileEdit(ctx, rest)
	case "push-token":
		return c.runPushToken(ctx, rest)
	case "notifications":
		return c.runNotifications(ctx, rest)
	case "read":
		return c.runRead(ctx, rest)
	case "image":
		return c.runImage(ctx, rest)
	case "cache-stats":
		return c.runCacheStats()
	case "cache-clear":
		return c.runCacheClear(ctx)
	case "help":
		c.PrintUsage()
		return nil
	default:
		c.io.Printf("Unknown command: %s\n\n", command)
		c.PrintUsage()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, command)
	}
}

func (c *Cli) PrintUsage() {
	c.io.Println("Loyalty Client")
	c.io.Println()
	c.io.Println("Usage:")
	c.io.Println("  loyalty [OPTIONS] COMMAND [ARGS]")
	c.io.Println()
	c.io.Println("Options:")
	c.io.Println("  --version              Show version information")
	c.io.Println("  --config PATH          Path to TOML config file")
	c.io.Println("  --env-file PATH        Path to .env file (default: .env)")
	c.io.Println("  --server URL           Server URL (default: http://localhost:8080)")
	c.io.Println("  --db PATH              Path to local database")
	c.io.Println("  --cache-dir PATH       Image cache directory")
	c.io.Println("  --log-level LEVEL      debug, info, warn, error")
	c.io.Println("  --timeout DURATION     Request timeout (default: 30s)")
	c.io.Println()
	c.io.Println("Commands:")
	c.io.Println("  login [PHONE]          Sign in with a one-time code")
	c.io.Println("  logout                 Delete the local session")
	c.io.Println("  status                 Show session status")
	c.io.Println("  home                   Show the home screen")
	c.io.Println("  card                   Show the loyalty card")
	c.io.Println("  profile                Show the profile")
	c.io.Println("  profile-edit [FLAGS]   Update the profile (-name, -email, -birth-date, -address)")
	c.io.Println("  push-token TOKEN       Register a push token for this device")
	c.io.Println("  notifications [FLAGS]  List notifications of the last 4 weeks (-limit, -offset)")
	c.io.Println("  read ID|all            Mark notifications as read")
	c.io.Println("  image URL              Download an image into the cache and print its path")
	c.io.Println("  cache-stats            Show image cache usage")
	c.io.Println("  cache-clear            Remove all cached images")
	c.io.Println()
	c.io.Println("Examples:")
	c.io.Println("  loyalty login +380501234567")
	c.io.Println("  loyalty notifications -limit 10")
	c.io.Println("  loyalty profile-edit -email ivan@example.com")
	c.io.Println("  loyalty --server https://example.com home")
}
