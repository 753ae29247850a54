package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fleetzen/fleetzen/internal/client"
	"github.com/fleetzen/fleetzen/internal/service"
	"github.com/fleetzen/fleetzen/internal/validators"
	"github.com/fleetzen/fleetzen/models"
	"github.com/spf13/cobra"
)

// PayloadOptions holds the flags that build a payload or a patch.
type PayloadOptions struct {
	JSON string
	Set  []string
}

func (p *PayloadOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.JSON, "payload", "", `payload fields as a JSON object, e.g. '{"washType":"exterior"}'`)
	cmd.Flags().StringArrayVar(&p.Set, "set", nil, "payload field as key=value (repeatable); values are parsed as JSON when possible")
}

// build merges --payload and --set into one payload, --set winning.
func (p *PayloadOptions) build() (models.Payload, error) {
	payload := models.Payload{}

	if p.JSON != "" {
		if err := json.Unmarshal([]byte(p.JSON), &payload); err != nil {
			return nil, fmt.Errorf("%w: invalid --payload JSON: %w", service.ErrInvalidArgument, err)
		}
	}

	for _, kv := range p.Set {
		key, raw, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: --set expects key=value, got %q", service.ErrInvalidArgument, kv)
		}

		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		payload[key] = value
	}

	return payload, nil
}

// validatePayload checks payload against the schema of t. Partial payloads
// are accepted; completeness is only required before submission.
func validatePayload(ctx context.Context, c client.Client, t models.InterventionType, payload models.Payload) error {
	validator := c.Services().Validator
	if validator == nil {
		return nil
	}

	draft := models.Draft{Type: t, Payload: payload}
	if err := validator.Validate(ctx, draft, validators.FieldType, validators.FieldPayloadShape); err != nil {
		return fmt.Errorf("%w: %w", service.ErrInvalidArgument, err)
	}
	return nil
}

// ── create ───────────────────────────────────────────────────────────────────

// CreateOptions holds flags for the create command.
type CreateOptions struct {
	*RootOptions
	Payload    PayloadOptions
	ClientRef  string
	SiteRef    string
	VehicleRef string
}

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create <washing|fuel-delivery|tank-fill>",
		Short: "Create a new local draft",
		Long: `Create a new local draft of the given intervention type.

The payload may be partial; missing fields can be filled in later with
'agent update'.

Example:
  agent create fuel-delivery --set liters=40.5 --set fuelType=diesel --vehicle-ref VH-2231`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				return createDraft(ctx, opts, c, models.InterventionType(args[0]), cmd)
			})
		},
	}

	opts.Payload.register(cmd)
	cmd.Flags().StringVar(&opts.ClientRef, "client-ref", "", "client reference")
	cmd.Flags().StringVar(&opts.SiteRef, "site-ref", "", "site reference")
	cmd.Flags().StringVar(&opts.VehicleRef, "vehicle-ref", "", "vehicle reference")

	return cmd
}

func createDraft(ctx context.Context, opts *CreateOptions, c client.Client, t models.InterventionType, cmd *cobra.Command) error {
	payload, err := opts.Payload.build()
	if err != nil {
		return err
	}
	if err = validatePayload(ctx, c, t, payload); err != nil {
		return err
	}

	draft, err := c.Services().DraftStore.Create(ctx, t, payload, models.References{
		ClientRef:  optional(opts.ClientRef),
		SiteRef:    optional(opts.SiteRef),
		VehicleRef: optional(opts.VehicleRef),
	})
	if err != nil {
		return err
	}

	return opts.output(cmd).Success(draftResult{Draft: draft})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ── update ───────────────────────────────────────────────────────────────────

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	Payload PayloadOptions
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <draft-id>",
		Short: "Merge fields into a local draft",
		Long: `Merge payload fields into a local-only draft. Fields not named are kept.

Example:
  agent update 0190c1e2-... --set odometerKm=120345`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				return updateDraft(ctx, opts, c, args[0], cmd)
			})
		},
	}

	opts.Payload.register(cmd)

	return cmd
}

func updateDraft(ctx context.Context, opts *UpdateOptions, c client.Client, id string, cmd *cobra.Command) error {
	patch, err := opts.Payload.build()
	if err != nil {
		return err
	}
	if len(patch) == 0 {
		return fmt.Errorf("%w: nothing to update, use --payload or --set", service.ErrInvalidArgument)
	}

	drafts := c.Services().DraftStore
	current, err := drafts.Get(ctx, id)
	if err != nil {
		return err
	}
	if err = validatePayload(ctx, c, current.Type, patch); err != nil {
		return err
	}

	draft, err := drafts.Update(ctx, id, patch)
	if err != nil {
		return err
	}

	return opts.output(cmd).Success(draftResult{Draft: draft})
}

// ── photo ────────────────────────────────────────────────────────────────────

// NewPhotoCommand creates the photo command.
func NewPhotoCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "photo <draft-id> <image-file>",
		Short: "Compress an image and attach it to a draft",
		Long: `Compress a JPEG, PNG or GIF image and attach it to a local-only draft.
The image is downsized and re-encoded as JPEG before it is stored.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				return attachPhoto(ctx, opts, c, args[0], args[1], cmd)
			})
		},
	}
}

func attachPhoto(ctx context.Context, opts *RootOptions, c client.Client, id, path string, cmd *cobra.Command) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", service.ErrInvalidArgument, err)
	}
	defer f.Close()

	photo, err := c.Services().PhotoProcessor.Process(ctx, f)
	if err != nil {
		return err
	}

	draft, err := c.Services().DraftStore.AddPhoto(ctx, id, photo)
	if err != nil {
		return err
	}

	return opts.output(cmd).Success(draftResult{Draft: draft})
}

// ── get / inspect / list ─────────────────────────────────────────────────────

// NewGetCommand creates the get command.
func NewGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <draft-id>",
		Short: "Show a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				draft, err := c.Services().DraftStore.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return opts.output(cmd).Success(draftResult{Draft: draft})
			})
		},
	}
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <draft-id>",
		Short: "Show a draft even if it has expired",
		Long: `Show the stored draft record without the expiry check that 'get'
applies. Useful to diagnose drafts that are about to be reaped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				draft, err := c.Services().DraftStore.Inspect(ctx, args[0])
				if err != nil {
					return err
				}
				expired := draft.Expired(time.Now())
				return opts.output(cmd).Success(draftResult{Draft: draft, Expired: &expired})
			})
		},
	}
}

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List drafts that have not expired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				drafts, err := c.Services().DraftStore.List(ctx)
				if err != nil {
					return err
				}
				return opts.output(cmd).Success(newDraftListResult(drafts))
			})
		},
	}
}

// ── delete / reap ────────────────────────────────────────────────────────────

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <draft-id>",
		Short: "Discard a draft and its photos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				if err := c.Services().DraftStore.Delete(ctx, args[0]); err != nil {
					return err
				}
				return opts.output(cmd).Success(messageResult{
					Message: fmt.Sprintf("Draft %s deleted.", args[0]),
					ID:      args[0],
				})
			})
		},
	}
}

// NewReapCommand creates the reap command.
func NewReapCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reap",
		Short: "Remove expired drafts now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, c client.Client) error {
				removed, err := c.Services().DraftStore.Reap(ctx)
				if err != nil {
					return err
				}
				return opts.output(cmd).Success(messageResult{
					Message: fmt.Sprintf("%d expired draft(s) removed.", removed),
					Count:   &removed,
				})
			})
		},
	}
}
