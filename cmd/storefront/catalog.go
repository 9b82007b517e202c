package main

import (
	"github.com/spf13/cobra"

	"github.com/xenking/storefront/internal/domain/product"
)

func (c *cli) productsCmd() *cobra.Command {
	var f product.Filter
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products in stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := c.sess.client.Products(cmd.Context(), f)
			if err != nil {
				return err
			}
			renderProducts(c.sess.out, products)
			return nil
		},
	}
	cmd.Flags().Int64Var(&f.CategoryID, "category", 0, "only products of this category id")
	cmd.Flags().StringVar(&f.Search, "search", "", "match name, description or category")
	return cmd
}

func (c *cli) productCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "product ID",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.sess.client.Product(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderProduct(c.sess.out, p)
			return nil
		},
	}
}

func (c *cli) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, err := c.sess.client.Categories(cmd.Context())
			if err != nil {
				return err
			}
			renderCategories(c.sess.out, categories)
			return nil
		},
	}
}
