package main

import (
	"strconv"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/xenking/storefront/internal/domain/cart"
)

func (c *cli) cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the local cart",
	}
	cmd.AddCommand(
		c.cartShowCmd(),
		c.cartAddCmd(),
		c.cartRemoveCmd(),
		c.cartSetCmd(),
		c.cartClearCmd(),
	)
	return cmd
}

func (c *cli) cartShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.sess.withCart(cmd.Context(), func(*cart.Store) {})
		},
	}
}

func (c *cli) cartAddCmd() *cobra.Command {
	var quantity int
	cmd := &cobra.Command{
		Use:   "add ID",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.sess.client.Product(ctx, args[0])
			if err != nil {
				return errors.Wrapf(err, "fetch product %s", args[0])
			}
			return c.sess.withCart(ctx, func(s *cart.Store) {
				s.AddItem(ctx, *p, quantity)
			})
		},
	}
	cmd.Flags().IntVarP(&quantity, "quantity", "n", 1, "units to add")
	return cmd
}

func (c *cli) cartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.sess.withCart(ctx, func(s *cart.Store) {
				s.RemoveItem(ctx, args[0])
			})
		},
	}
}

func (c *cli) cartSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set ID QUANTITY",
		Short: "Set the quantity of a cart item; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Errorf("invalid quantity %q", args[1])
			}
			ctx := cmd.Context()
			return c.sess.withCart(ctx, func(s *cart.Store) {
				s.SetQuantity(ctx, args[0], quantity)
			})
		},
	}
}

func (c *cli) cartClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return c.sess.withCart(ctx, func(s *cart.Store) {
				s.Clear(ctx)
			})
		},
	}
}
