package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repairdepot/storefront/internal/cartview"
	"github.com/repairdepot/storefront/internal/quickorder"
	"github.com/repairdepot/storefront/pkg/storefront"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// cartAPI is nil without a token so the view-model starts as a guest.
func (a *app) cartAPI() cartview.CartAPI {
	if !a.api.Authenticated() {
		return nil
	}
	return a.api
}

func cartCmd(a *app) *cobra.Command {
	var coupon, zip string
	var quote bool
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the cart with an optional coupon and shipping zip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			model := cartview.New(a.cartAPI(), cartview.Options{Quoter: a.api, Logger: a.logg})
			if err := model.Load(ctx); err != nil {
				return err
			}
			if coupon != "" {
				model.SetCouponInput(coupon)
				model.ApplyCoupon()
			}
			if zip != "" {
				model.SetZip(zip)
			}
			if err := writeJSON(a.out, model.View()); err != nil {
				return err
			}
			if !quote || model.Guest() {
				return nil
			}
			q, err := model.Quote(ctx)
			if err != nil {
				return err
			}
			return writeJSON(a.out, q)
		},
	}
	cmd.Flags().StringVar(&coupon, "coupon", "", "coupon code")
	cmd.Flags().StringVar(&zip, "zip", "", "shipping zip")
	cmd.Flags().BoolVar(&quote, "quote", false, "ask the server for the total")
	return cmd
}

func cartQtyCmd(a *app) *cobra.Command {
	var item string
	var delta int
	cmd := &cobra.Command{
		Use:   "cart-qty",
		Short: "Change a cart line quantity by a delta",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if item == "" {
				return errMissingArgs
			}
			model := cartview.New(a.cartAPI(), cartview.Options{Logger: a.logg})
			if err := model.Load(cmd.Context()); err != nil {
				return err
			}
			if err := model.UpdateQuantity(cmd.Context(), item, delta); err != nil {
				return err
			}
			return writeJSON(a.out, model.View())
		},
	}
	cmd.Flags().StringVar(&item, "item", "", "cart item id")
	cmd.Flags().IntVar(&delta, "delta", 1, "quantity change")
	return cmd
}

func cartRemoveCmd(a *app) *cobra.Command {
	var item string
	cmd := &cobra.Command{
		Use:   "cart-remove",
		Short: "Remove a cart line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if item == "" {
				return errMissingArgs
			}
			model := cartview.New(a.cartAPI(), cartview.Options{Logger: a.logg})
			if err := model.Load(cmd.Context()); err != nil {
				return err
			}
			if err := model.RemoveItem(cmd.Context(), item); err != nil {
				return err
			}
			return writeJSON(a.out, model.View())
		},
	}
	cmd.Flags().StringVar(&item, "item", "", "cart item id")
	return cmd
}

func searchCmd(a *app) *cobra.Command {
	var term, category string
	var limit int
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search products and remember the term",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(term) == "" && category == "" {
				return errMissingArgs
			}
			ctx := cmd.Context()
			page, err := a.api.SearchProducts(ctx, storefront.SearchParams{Search: term, Category: category, Limit: limit})
			if err != nil {
				return err
			}
			if _, err := a.store.AddRecentSearch(term); err != nil {
				a.logg.Warn(a.logg.WithField(ctx, "error", err.Error()), "search.recent_not_saved")
			}
			return writeJSON(a.out, page)
		},
	}
	cmd.Flags().StringVarP(&term, "query", "q", "", "search term")
	cmd.Flags().StringVar(&category, "category", "", "category slug")
	cmd.Flags().IntVar(&limit, "limit", 20, "page size")
	return cmd
}

func recentCmd(a *app) *cobra.Command {
	var clearAll bool
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List or clear recent searches",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if clearAll {
				return a.store.ClearRecentSearches()
			}
			terms, err := a.store.RecentSearches()
			if err != nil {
				return err
			}
			for _, t := range terms {
				fmt.Fprintln(a.out, t)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "forget recent searches")
	return cmd
}

func pinCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pin SLUG",
		Short: "Toggle a pinned category",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			slug := strings.TrimSpace(args[0])
			if slug == "" {
				return errMissingArgs
			}
			pinned, err := a.store.TogglePinnedCategory(slug)
			if err != nil {
				return err
			}
			state := "unpinned"
			if pinned {
				state = "pinned"
			}
			fmt.Fprintf(a.out, "%s %s\n", state, slug)
			return nil
		},
	}
}

func categoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Show the category tree and pinned categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tree, err := a.api.CategoryTree(cmd.Context())
			if err != nil {
				return err
			}
			pinned, err := a.store.PinnedCategories()
			if err != nil {
				return err
			}
			return writeJSON(a.out, map[string]any{"pinned": pinned, "tree": tree})
		},
	}
}

func storesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stores",
		Short: "List store locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stores, err := a.api.Stores(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(a.out, stores)
		},
	}
}

func trackCmd(a *app) *cobra.Command {
	var order, email string
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Track an order by number and email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if order == "" || email == "" {
				return errMissingArgs
			}
			tracking, err := a.api.TrackOrder(cmd.Context(), order, email)
			if err != nil {
				return err
			}
			return writeJSON(a.out, tracking)
		},
	}
	cmd.Flags().StringVar(&order, "order", "", "order number")
	cmd.Flags().StringVar(&email, "email", "", "order email")
	return cmd
}

func quoteCmd(a *app) *cobra.Command {
	var subtotal int64
	var coupon, zip string
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Ask the server to price a subtotal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if subtotal < 0 {
				return errMissingArgs
			}
			q, err := a.api.Quote(cmd.Context(), storefront.QuoteRequest{SubtotalCents: subtotal, CouponCode: coupon, Zip: zip})
			if err != nil {
				return err
			}
			return writeJSON(a.out, q)
		},
	}
	cmd.Flags().Int64Var(&subtotal, "subtotal", -1, "subtotal in cents")
	cmd.Flags().StringVar(&coupon, "coupon", "", "coupon code")
	cmd.Flags().StringVar(&zip, "zip", "", "shipping zip")
	return cmd
}

func quickOrderCmd(a *app) *cobra.Command {
	var load, save string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "quick-order [SKU[:QTY]...]",
		Short: "Build a wholesale order by SKU and add it to the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			resolver, err := a.resolver()
			if err != nil {
				return err
			}
			order, err := quickorder.New(quickorder.Options{
				Search:    a.api,
				Cart:      a.api,
				Resolver:  resolver,
				Templates: a.store,
				Logger:    a.logg,
			})
			if err != nil {
				return err
			}

			if load != "" {
				ok, err := order.LoadTemplate(load)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("template %q not found", load)
				}
			}
			for _, arg := range args {
				sku, qty, err := parseLine(arg)
				if err != nil {
					return err
				}
				if _, err := order.Search(ctx, sku); err != nil {
					return err
				}
				if !order.AddBySKU(sku, qty) {
					fmt.Fprintf(a.errOut, "skipped %s: not in search results\n", sku)
				}
			}
			if save != "" {
				if err := order.SaveTemplate(save); err != nil {
					return err
				}
			}
			if dryRun {
				return writeJSON(a.out, map[string]any{"lines": order.Lines(), "subtotal": order.Subtotal()})
			}
			if len(order.Lines()) == 0 {
				return errMissingArgs
			}
			added, err := order.PlaceOrder(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "added %d lines to cart\n", added)
			return nil
		},
	}
	cmd.Flags().StringVar(&load, "load", "", "start from a saved template")
	cmd.Flags().StringVar(&save, "save", "", "save the lines as a template")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "build the order without placing it")
	return cmd
}

// parseLine reads SKU or SKU:QTY.
func parseLine(arg string) (string, int, error) {
	sku, rawQty, found := strings.Cut(arg, ":")
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return "", 0, fmt.Errorf("empty sku in %q", arg)
	}
	if !found {
		return sku, 1, nil
	}
	qty, err := strconv.Atoi(rawQty)
	if err != nil || qty < 1 {
		return "", 0, fmt.Errorf("bad quantity in %q", arg)
	}
	return sku, qty, nil
}

func templatesCmd(a *app) *cobra.Command {
	var del string
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List or delete saved quick-order templates",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if del == "" {
				templates, err := a.store.Templates()
				if err != nil {
					return err
				}
				return writeJSON(a.out, templates)
			}
			ok, err := a.store.DeleteTemplate(del)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("template %q not found", del)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&del, "delete", "", "template to delete")
	return cmd
}
