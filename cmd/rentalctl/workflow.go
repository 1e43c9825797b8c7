package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"rentalcore/internal/core"
	"rentalcore/pkg/domain"
)

func applyCmd(c *cli) *cobra.Command {
	var message string
	cmd := &cobra.Command{
		Use:   "apply PROPERTY_ID",
		Short: "Apply to rent a property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, res, err := c.app.svc.Apply(c.actorContext(cmd.Context()), args[0], message)
			if err != nil {
				return err
			}
			return c.printResult(app, res)
		},
	}
	cmd.Flags().StringVar(&message, "message", "", "note to the owner")
	return cmd
}

func approveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "approve APPLICATION_ID",
		Short: "Approve a pending application and issue the lease",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			approval, res, err := c.app.svc.Approve(c.actorContext(cmd.Context()), args[0])
			if err != nil {
				return err
			}
			return c.printResult(approval, res)
		},
	}
}

func rejectCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reject APPLICATION_ID",
		Short: "Reject a pending application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, res, err := c.app.svc.Reject(c.actorContext(cmd.Context()), args[0])
			if err != nil {
				return err
			}
			return c.printResult(app, res)
		},
	}
}

func complainCmd(c *cli) *cobra.Command {
	var (
		in       core.ComplaintInput
		priority string
	)
	cmd := &cobra.Command{
		Use:   "complain PROPERTY_ID",
		Short: "File a complaint about a leased property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.PropertyID = args[0]
			in.Priority = domain.ComplaintPriority(priority)
			complaint, res, err := c.app.svc.FileComplaint(c.actorContext(cmd.Context()), in)
			if err != nil {
				return err
			}
			return c.printResult(complaint, res)
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "short summary")
	cmd.Flags().StringVar(&in.Description, "description", "", "details")
	cmd.Flags().StringVar(&priority, "priority", string(domain.PriorityMedium), "low, medium or high")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func advanceCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "advance COMPLAINT_ID",
		Short: "Move a complaint to its next status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			complaint, res, err := c.app.svc.Advance(c.actorContext(cmd.Context()), args[0])
			if err != nil {
				return err
			}
			return c.printResult(complaint, res)
		},
	}
}

func payCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Request or settle payments",
	}
	var kind string
	request := &cobra.Command{
		Use:   "request PROPERTY_ID AMOUNT",
		Short: "Record a pending payment to the property owner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("amount %q: %w", args[1], core.ErrValidation)
			}
			payment, res, err := c.app.svc.RequestPayment(c.actorContext(cmd.Context()), args[0], amount, domain.PaymentType(kind))
			if err != nil {
				return err
			}
			return c.printResult(payment, res)
		},
	}
	request.Flags().StringVar(&kind, "type", string(domain.PaymentRent), "rent, deposit or maintenance")

	settle := &cobra.Command{
		Use:   "settle PAYMENT_ID",
		Short: "Mark a pending payment as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payment, res, err := c.app.svc.SettlePayment(c.actorContext(cmd.Context()), args[0])
			if err != nil {
				return err
			}
			return c.printResult(payment, res)
		},
	}
	cmd.AddCommand(request, settle)
	return cmd
}
