package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/loyalty/internal/client/auth"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Session Status ===")
	c.io.Println()

	st, err := c.authService.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	if st.DeviceID != "" {
		c.io.Printf("Device: %s\n", st.DeviceID)
	}

	if st.State == auth.StateUnauthenticated {
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'loyalty login' to authenticate.")
		return nil
	}

	c.io.Printf("Status: %s\n", st.State)
	if !st.TokenVersionValid {
		c.io.Println("⚠️  Stored session uses an old format. Please login again.")
	}

	return nil
}
