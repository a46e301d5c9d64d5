package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linkme/cardstudio/internal/modules/studio/application"
	"github.com/linkme/cardstudio/internal/modules/studio/domain"
	"github.com/linkme/cardstudio/internal/modules/studio/infrastructure/qr"
	"github.com/linkme/cardstudio/internal/modules/studio/infrastructure/raster"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cardctl",
		Short:         "Render and inspect LinkMe identity cards offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRenderCmd(), newStyleCmd(), newShadeCmd(), newSlugCmd(), newQRCmd())
	return root
}

// --- render ---

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a draft JSON file as a card PNG",
		Long: `Render a draft JSON file as a card PNG.

Examples:
  cardctl render --draft jane.json --template neon --out jane.png
  cat acme.json | cardctl render --draft - --type business --avatar logo.png --out acme.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			draftPath, _ := cmd.Flags().GetString("draft")
			typeStr, _ := cmd.Flags().GetString("type")
			templateStr, _ := cmd.Flags().GetString("template")
			baseURL, _ := cmd.Flags().GetString("base-url")
			avatarPath, _ := cmd.Flags().GetString("avatar")
			bgPath, _ := cmd.Flags().GetString("background")
			scale, _ := cmd.Flags().GetInt("scale")
			out, _ := cmd.Flags().GetString("out")

			pt, err := domain.ParseProfileType(typeStr)
			if err != nil {
				return err
			}
			tmpl, err := domain.ParseTemplate(templateStr)
			if err != nil {
				return err
			}

			raw, err := readInput(cmd.InOrStdin(), draftPath)
			if err != nil {
				return fmt.Errorf("reading draft: %w", err)
			}
			draft := domain.NewDraft()
			if err := json.Unmarshal(raw, &draft); err != nil {
				return fmt.Errorf("decoding draft: %w", err)
			}

			preview := domain.BuildPreview(pt, draft, tmpl, baseURL)

			var images application.CardImages
			if images.QR, err = qr.NewEncoder().PNG(preview.ProfileURL, 256); err != nil {
				return err
			}
			if avatarPath != "" {
				if images.Avatar, err = os.ReadFile(avatarPath); err != nil {
					return fmt.Errorf("reading avatar: %w", err)
				}
			}
			if bgPath != "" {
				if images.Background, err = os.ReadFile(bgPath); err != nil {
					return fmt.Errorf("reading background: %w", err)
				}
			}

			png, err := raster.NewRenderer(scale).Render(preview, images)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), out, png); err != nil {
				return err
			}
			if out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%s)\n", out, preview.ProfileURL)
			}
			return nil
		},
	}
	cmd.Flags().String("draft", "-", "draft JSON file, - for stdin")
	cmd.Flags().String("type", string(domain.ProfilePersonal), "profile type: personal or business")
	cmd.Flags().String("template", "", "template id (modern, gradient, glass, dark, neon, elegant)")
	cmd.Flags().String("base-url", domain.DefaultPublicBaseURL, "public profile base URL")
	cmd.Flags().String("avatar", "", "avatar image file")
	cmd.Flags().String("background", "", "background image file for AI mode")
	cmd.Flags().Int("scale", raster.DefaultScale, "pixel density")
	cmd.Flags().String("out", "card.png", "output file, - for stdout")
	return cmd
}

// --- style ---

func newStyleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "style",
		Short: "Print the resolved card style as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			templateStr, _ := cmd.Flags().GetString("template")
			mode, _ := cmd.Flags().GetString("mode")
			color, _ := cmd.Flags().GetString("color")
			aiBackground, _ := cmd.Flags().GetString("ai-background")

			tmpl, err := domain.ParseTemplate(templateStr)
			if err != nil {
				return err
			}
			style := domain.ResolveStyle(tmpl, domain.DesignMode(mode), color, aiBackground)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"style": style,
				"css":   style.CSS(),
			})
		},
	}
	cmd.Flags().String("template", "", "template id")
	cmd.Flags().String("mode", "", "design mode: manual or ai")
	cmd.Flags().String("color", domain.DefaultColor, "brand color for manual mode")
	cmd.Flags().String("ai-background", "", "background image URL for ai mode")
	return cmd
}

// --- shade ---

func newShadeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shade <color> <percent>",
		Short: "Lighten or darken a hex color",
		Example: `  cardctl shade "#2563eb" -20
  cardctl shade 9333ea 30`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			percent, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("percent must be an integer: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), domain.AdjustBrightness(args[0], percent))
			return nil
		},
	}
}

// --- slug ---

func newSlugCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slug <name>...",
		Short: "Print the profile slug and URL for a display name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL, _ := cmd.Flags().GetString("base-url")
			name := strings.Join(args, " ")
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", domain.Slugify(name), domain.ProfileURL(baseURL, name))
			return nil
		},
	}
	cmd.Flags().String("base-url", domain.DefaultPublicBaseURL, "public profile base URL")
	return cmd
}

// --- qr ---

func newQRCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qr <url>",
		Short: "Encode a URL as a QR code PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, _ := cmd.Flags().GetInt("size")
			out, _ := cmd.Flags().GetString("out")

			png, err := qr.NewEncoder().PNG(args[0], application.ClampQRSize(size))
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), out, png)
		},
	}
	cmd.Flags().Int("size", application.DefaultQRSize, "image size in pixels")
	cmd.Flags().String("out", "qr.png", "output file, - for stdout")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
