package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	var phone string
	if len(args) > 0 {
		phone = args[0]
	} else {
		var err error
		phone, err = c.io.ReadInput("Phone (+380...): ")
		if err != nil {
			return fmt.Errorf("failed to read phone: %w", err)
		}
	}

	resp, err := c.authService.RequestCode(ctx, phone, "")
	if err != nil {
		return err
	}
	if resp.Message != "" {
		c.io.Println(resp.Message)
	}
	if resp.ExpiresIn > 0 {
		c.io.Printf("The code is valid for %s\n", time.Duration(resp.ExpiresIn)*time.Second)
	}

	code, err := c.io.ReadPassword("Code: ")
	if err != nil {
		return fmt.Errorf("failed to read code: %w", err)
	}

	user, err := c.authService.VerifyCode(ctx, phone, code)
	if err != nil {
		return err
	}

	if !resp.IsRegistered || user.FullName == "" {
		c.io.Println()
		c.io.Println("Welcome! Please complete registration.")
		fullName, err := c.io.ReadInput("Full name: ")
		if err != nil {
			return fmt.Errorf("failed to read full name: %w", err)
		}
		user, err = c.authService.CompleteRegistration(ctx, phone, fullName)
		if err != nil {
			return err
		}
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Name: %s\n", user.FullName)
	c.io.Printf("Card: %s\n", formatCardNumber(user.CardNumber))
	c.io.Println()
	c.io.Println("Your session has been saved securely.")

	return nil
}
