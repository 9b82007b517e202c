package main

import (
	"fmt"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/xenking/storefront/internal/domain/product"
)

func (c *cli) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage the catalog (requires the admin key)",
	}
	cmd.AddCommand(
		c.adminLoginCmd(),
		c.adminLogoutCmd(),
		c.adminProductsCmd(),
		c.adminCreateProductCmd(),
		c.adminUpdateProductCmd(),
		c.adminDeleteProductCmd(),
		c.adminCreateCategoryCmd(),
		c.adminDeleteCategoryCmd(),
	)
	return cmd
}

func (c *cli) adminLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login KEY",
		Short: "Check the admin key and remember it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ok, err := c.sess.client.ValidateAdminKey(ctx, args[0])
			if err != nil {
				return errors.Wrap(err, "validate admin key")
			}
			if !ok {
				return errors.New("invalid admin key")
			}
			slots, err := c.sess.kv(ctx)
			if err != nil {
				return err
			}
			if err := slots.Set(ctx, adminKeySlot, []byte(args[0])); err != nil {
				return errors.Wrap(err, "save admin key")
			}
			fmt.Fprintln(c.sess.out, successStyle.Render("✓ Logged in as admin"))
			return nil
		},
	}
}

func (c *cli) adminLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved admin key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			slots, err := c.sess.kv(ctx)
			if err != nil {
				return err
			}
			if err := slots.Delete(ctx, adminKeySlot); err != nil {
				return errors.Wrap(err, "delete admin key")
			}
			fmt.Fprintln(c.sess.out, successStyle.Render("✓ Logged out"))
			return nil
		},
	}
}

func (c *cli) adminProductsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List all products, including those out of stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.sess.adminClient(cmd.Context())
			if err != nil {
				return err
			}
			products, err := client.AdminProducts(cmd.Context())
			if err != nil {
				return err
			}
			renderProducts(c.sess.out, products)
			return nil
		},
	}
}

// productFlags holds the product fields accepted on the command line.
type productFlags struct {
	name        string
	description string
	price       string
	categoryID  int64
	stock       int
	imageURL    string
}

func (f *productFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "product name")
	fs.StringVar(&f.description, "description", "", "product description")
	fs.StringVar(&f.price, "price", "", "unit price, e.g. 19.99")
	fs.Int64Var(&f.categoryID, "category", 0, "category id")
	fs.IntVar(&f.stock, "stock", 0, "units in stock")
	fs.StringVar(&f.imageURL, "image", "", "image URL")
}

func parsePrice(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.Errorf("invalid price %q", raw)
	}
	return d, nil
}

func (f *productFlags) createInput() (product.CreateInput, error) {
	price, err := parsePrice(f.price)
	if err != nil {
		return product.CreateInput{}, err
	}
	return product.CreateInput{
		Name:        f.name,
		Description: f.description,
		Price:       price,
		CategoryID:  f.categoryID,
		Stock:       f.stock,
		ImageURL:    f.imageURL,
	}, nil
}

// updateInput includes only the flags set explicitly.
func (f *productFlags) updateInput(fs *pflag.FlagSet) (product.UpdateInput, error) {
	var in product.UpdateInput
	if fs.Changed("name") {
		in.Name = &f.name
	}
	if fs.Changed("description") {
		in.Description = &f.description
	}
	if fs.Changed("price") {
		price, err := parsePrice(f.price)
		if err != nil {
			return in, err
		}
		in.Price = &price
	}
	if fs.Changed("category") {
		in.CategoryID = &f.categoryID
	}
	if fs.Changed("stock") {
		in.Stock = &f.stock
	}
	if fs.Changed("image") {
		in.ImageURL = &f.imageURL
	}
	return in, nil
}

func (c *cli) adminCreateProductCmd() *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "create-product",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := f.createInput()
			if err != nil {
				return err
			}
			client, err := c.sess.adminClient(cmd.Context())
			if err != nil {
				return err
			}
			p, err := client.CreateProduct(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.sess.out, successStyle.Render("✓ Product created"))
			renderProduct(c.sess.out, p)
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func (c *cli) adminUpdateProductCmd() *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "update-product ID",
		Short: "Update the given fields of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := f.updateInput(cmd.Flags())
			if err != nil {
				return err
			}
			client, err := c.sess.adminClient(cmd.Context())
			if err != nil {
				return err
			}
			p, err := client.UpdateProduct(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.sess.out, successStyle.Render("✓ Product updated"))
			renderProduct(c.sess.out, p)
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func (c *cli) adminDeleteProductCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-product ID",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.sess.adminClient(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.DeleteProduct(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(c.sess.out, successStyle.Render("✓ Product deleted successfully"))
			return nil
		},
	}
}

func (c *cli) adminCreateCategoryCmd() *cobra.Command {
	var in product.CreateCategoryInput
	cmd := &cobra.Command{
		Use:   "create-category",
		Short: "Create a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.sess.adminClient(cmd.Context())
			if err != nil {
				return err
			}
			cat, err := client.CreateCategory(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.sess.out, successStyle.Render("✓ Category created"))
			renderCategories(c.sess.out, []product.Category{*cat})
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "category name")
	cmd.Flags().StringVar(&in.Description, "description", "", "category description")
	return cmd
}

func (c *cli) adminDeleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-category ID",
		Short: "Delete a category; its products become uncategorized",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.Errorf("invalid category id %q", args[0])
			}
			client, err := c.sess.adminClient(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.DeleteCategory(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(c.sess.out, successStyle.Render("✓ Category deleted successfully"))
			return nil
		},
	}
}
