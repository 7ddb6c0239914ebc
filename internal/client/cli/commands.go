package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/iudanet/loyalty/internal/client/data"
	pkgapi "github.com/iudanet/loyalty/pkg/api"
)

func (c *Cli) runHome(ctx context.Context) error {
	d, err := c.dataService.Dashboard(ctx)
	if err != nil {
		return err
	}

	c.io.Printf("Hello, %s!\n", d.User.FullName)
	c.io.Printf("Card: %s\n", formatCardNumber(d.User.CardNumber))
	if d.UnreadCount > 0 {
		c.io.Printf("You have %d unread notification(s)\n", d.UnreadCount)
	}

	if len(d.Banners) > 0 {
		c.io.Println()
		c.io.Println("Offers:")
		for _, b := range d.Banners {
			c.io.Printf("  • %s\n", b.Title)
			c.io.Printf("    image: %s\n", b.ImageURL)
			if b.LinkURL != nil && *b.LinkURL != "" {
				c.io.Printf("    link:  %s\n", *b.LinkURL)
			}
		}
	}
	return nil
}

func (c *Cli) runCard(ctx context.Context) error {
	card, err := c.dataService.Card(ctx)
	if err != nil {
		return err
	}

	c.io.Println("=== Loyalty Card ===")
	c.io.Printf("Holder: %s\n", card.Holder)
	c.io.Printf("Number: %s\n", formatCardNumber(card.Number))
	return nil
}

func (c *Cli) runProfile(ctx context.Context) error {
	user, err := c.dataService.Profile(ctx)
	if err != nil {
		return err
	}
	c.printUser(user)
	return nil
}

func (c *Cli) printUser(user *pkgapi.User) {
	c.io.Println("=== Profile ===")
	c.io.Printf("Name:       %s\n", user.FullName)
	c.io.Printf("Phone:      %s\n", user.Phone)
	c.io.Printf("Email:      %s\n", orDash(user.Email))
	c.io.Printf("Birth date: %s\n", orDash(user.BirthDate))
	c.io.Printf("Address:    %s\n", orDash(user.Address))
	c.io.Printf("Card:       %s\n", formatCardNumber(user.CardNumber))
}

func (c *Cli) runProfileEdit(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("profile-edit", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	name := flags.String("name", "", "full name")
	email := flags.String("email", "", "email, empty to clear")
	birthDate := flags.String("birth-date", "", "birth date YYYY-MM-DD, empty to clear")
	address := flags.String("address", "", "address, empty to clear")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	// В запрос попадают только явно заданные флаги
	var req pkgapi.UpdateProfileRequest
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			req.FullName = name
		case "email":
			req.Email = email
		case "birth-date":
			req.BirthDate = birthDate
		case "address":
			req.Address = address
		}
	})

	user, err := c.dataService.UpdateProfile(ctx, req)
	if err != nil {
		return err
	}

	c.io.Println("✓ Profile updated")
	c.printUser(user)
	return nil
}

func (c *Cli) runPushToken(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: usage: push-token TOKEN", ErrUsage)
	}
	if err := c.dataService.UpdatePushToken(ctx, args[0]); err != nil {
		return err
	}
	c.io.Println("✓ Push token registered")
	return nil
}

func (c *Cli) runNotifications(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("notifications", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	limit := flags.Int("limit", data.DefaultPageSize, "page size")
	offset := flags.Int("offset", 0, "page offset")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	resp, err := c.dataService.Notifications(ctx, *limit, *offset)
	if err != nil {
		return err
	}

	if len(resp.Notifications) == 0 {
		c.io.Println("No notifications in the last 4 weeks.")
		return nil
	}

	for _, n := range resp.Notifications {
		marker := " "
		if !n.IsRead {
			marker = "●"
		}
		c.io.Printf("%s [%d] %s  %s\n", marker, n.ID, formatTime(n.CreatedAt), n.Title)
		c.io.Printf("      %s\n", n.Message)
	}

	if resp.Pagination != nil && resp.Pagination.HasMore {
		c.io.Println()
		c.io.Printf("More: loyalty notifications -limit %d -offset %d\n",
			resp.Pagination.Limit, resp.Pagination.Offset+resp.Pagination.Limit)
	}
	return nil
}

func (c *Cli) runRead(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: usage: read ID|all", ErrUsage)
	}

	if args[0] == "all" {
		if err := c.dataService.MarkAllRead(ctx); err != nil {
			return err
		}
		c.io.Println("✓ All notifications marked as read")
		return nil
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: notification id must be a number", ErrUsage)
	}

	n, err := c.dataService.Notification(ctx, id)
	if err != nil {
		return err
	}
	c.io.Printf("%s\n%s\n\n%s\n", n.Title, formatTime(n.CreatedAt), n.Message)

	if !n.IsRead {
		if err := c.dataService.MarkRead(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cli) runImage(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: usage: image URL", ErrUsage)
	}
	c.io.Println(c.images.GetCachedImage(ctx, args[0]))
	return nil
}

func (c *Cli) runCacheStats() error {
	st := c.images.Stats()

	used := 0.0
	if st.MaxSize > 0 {
		used = float64(st.TotalSize) / float64(st.MaxSize) * 100
	}

	c.io.Println("=== Image Cache ===")
	c.io.Printf("Files: %d\n", st.FileCount)
	c.io.Printf("Size:  %s of %s (%.1f%%)\n",
		humanize.IBytes(uint64(st.TotalSize)), humanize.IBytes(uint64(st.MaxSize)), used)
	return nil
}

func (c *Cli) runCacheClear(ctx context.Context) error {
	if err := c.images.ClearCache(ctx); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	c.io.Println("✓ Image cache cleared")
	return nil
}
