package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"rentalcore/internal/core"
	"rentalcore/internal/stats"
	"rentalcore/pkg/domain"
)

type propertyFlags struct {
	ownerID, title, description, location, imageURL, kind string
	rent, bathrooms                                       float64
	bedrooms, area                                        int
}

func (f *propertyFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.ownerID, "owner", "", "owner id (admins listing on behalf of an owner)")
	fs.StringVar(&f.title, "title", "", "listing title")
	fs.StringVar(&f.description, "description", "", "listing description")
	fs.StringVar(&f.location, "location", "", "address or area")
	fs.StringVar(&f.imageURL, "image-url", "", "photo URL")
	fs.StringVar(&f.kind, "type", string(domain.PropertyApartment), "apartment, house, condo or studio")
	fs.Float64Var(&f.rent, "rent", 0, "monthly rent")
	fs.IntVar(&f.bedrooms, "bedrooms", 0, "bedrooms")
	fs.Float64Var(&f.bathrooms, "bathrooms", 0, "bathrooms, halves allowed")
	fs.IntVar(&f.area, "area", 0, "area in square feet")
}

// patch builds a PropertyPatch from the flags the user actually set.
func (f *propertyFlags) patch(fs *pflag.FlagSet) core.PropertyPatch {
	var p core.PropertyPatch
	if fs.Changed("title") {
		p.Title = &f.title
	}
	if fs.Changed("description") {
		p.Description = &f.description
	}
	if fs.Changed("location") {
		p.Location = &f.location
	}
	if fs.Changed("image-url") {
		p.ImageURL = &f.imageURL
	}
	if fs.Changed("type") {
		kind := domain.PropertyType(f.kind)
		p.Type = &kind
	}
	if fs.Changed("rent") {
		p.Rent = &f.rent
	}
	if fs.Changed("bedrooms") {
		p.Bedrooms = &f.bedrooms
	}
	if fs.Changed("bathrooms") {
		p.Bathrooms = &f.bathrooms
	}
	if fs.Changed("area") {
		p.Area = &f.area
	}
	return p
}

func propertyCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "property", Short: "Manage listings"}

	var create propertyFlags
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "List a new property",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prop, res, err := c.app.svc.CreateProperty(c.actorContext(cmd.Context()), core.PropertyInput{
				OwnerID:     create.ownerID,
				Title:       create.title,
				Description: create.description,
				Rent:        create.rent,
				Location:    create.location,
				ImageURL:    create.imageURL,
				Bedrooms:    create.bedrooms,
				Bathrooms:   create.bathrooms,
				Area:        create.area,
				Type:        domain.PropertyType(create.kind),
			})
			if err != nil {
				return err
			}
			return c.printResult(prop, res)
		},
	}
	create.register(createCmd.Flags())

	var update propertyFlags
	updateCmd := &cobra.Command{
		Use:   "update PROPERTY_ID",
		Short: "Change listing fields; unset flags are left untouched",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prop, res, err := c.app.svc.UpdateProperty(c.actorContext(cmd.Context()), args[0], update.patch(cmd.Flags()))
			if err != nil {
				return err
			}
			return c.printResult(prop, res)
		},
	}
	update.register(updateCmd.Flags())

	deleteCmd := &cobra.Command{
		Use:   "delete PROPERTY_ID",
		Short: "Remove a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.app.svc.DeleteProperty(c.actorContext(cmd.Context()), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(c.stdout, "deleted", args[0])
			return nil
		},
	}

	availability := func(use string, available bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " PROPERTY_ID",
			Short: "Mark a listing as " + map[bool]string{true: "available", false: "unavailable"}[available],
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				prop, res, err := c.app.svc.SetAvailability(c.actorContext(cmd.Context()), args[0], available)
				if err != nil {
					return err
				}
				return c.printResult(prop, res)
			},
		}
	}

	cmd.AddCommand(createCmd, updateCmd, deleteCmd, availability("open", true), availability("close", false))
	return cmd
}

func browseCmd(c *cli) *cobra.Command {
	var (
		filter   stats.Filter
		kind     string
		minRent  float64
		maxRent  float64
		bedrooms int
	)
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search available properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter.Type = domain.PropertyType(kind)
			if cmd.Flags().Changed("min-rent") {
				filter.MinRent = &minRent
			}
			if cmd.Flags().Changed("max-rent") {
				filter.MaxRent = &maxRent
			}
			if cmd.Flags().Changed("bedrooms") {
				filter.Bedrooms = &bedrooms
			}
			props := stats.Browse(cmd.Context(), c.app.repos, filter)
			if props == nil {
				props = []domain.Property{}
			}
			return c.print(props)
		},
	}
	cmd.Flags().StringVar(&filter.Search, "search", "", "text in title or location")
	cmd.Flags().StringVar(&kind, "type", "", "property type")
	cmd.Flags().Float64Var(&minRent, "min-rent", 0, "minimum rent")
	cmd.Flags().Float64Var(&maxRent, "max-rent", 0, "maximum rent")
	cmd.Flags().IntVar(&bedrooms, "bedrooms", 0, "exact bedroom count")
	return cmd
}

func userCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "user", Short: "Administer accounts"}
	toggle := func(use string, active bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " USER_ID",
			Short: "Set the account's active flag to " + fmt.Sprint(active),
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				user, res, err := c.app.svc.SetUserActive(c.actorContext(cmd.Context()), args[0], active)
				if err != nil {
					return err
				}
				return c.printResult(viewUser(user), res)
			},
		}
	}
	cmd.AddCommand(toggle("activate", true), toggle("deactivate", false))
	return cmd
}

func leaseCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "lease", Short: "Manage lease agreements"}
	terminate := &cobra.Command{
		Use:   "terminate AGREEMENT_ID",
		Short: "End an active lease early",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agreement, res, err := c.app.svc.TerminateAgreement(c.actorContext(cmd.Context()), args[0])
			if err != nil {
				return err
			}
			return c.printResult(agreement, res)
		},
	}
	expire := &cobra.Command{
		Use:   "expire",
		Short: "Mark active leases past their end date as expired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			expired, res, err := c.app.svc.ExpireAgreements(c.actorContext(cmd.Context()))
			if err != nil {
				return err
			}
			if expired == nil {
				expired = []domain.LeaseAgreement{}
			}
			return c.printResult(expired, res)
		},
	}
	cmd.AddCommand(terminate, expire)
	return cmd
}

func statsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard for the signed-in role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := c.current()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			switch u.Role {
			case domain.RoleAdmin:
				return c.print(stats.AdminDashboard(ctx, c.app.repos))
			case domain.RoleOwner:
				return c.print(stats.OwnerDashboard(ctx, c.app.repos, u.ID))
			default:
				return c.print(stats.TenantDashboard(ctx, c.app.repos, u.ID))
			}
		},
	}
}

func resetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every record; the session survives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.svc.ResetData(c.actorContext(cmd.Context())); err != nil {
				return err
			}
			fmt.Fprintln(c.stdout, "all data cleared")
			return nil
		},
	}
}
