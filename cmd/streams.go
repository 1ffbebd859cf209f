// Package cmd implements the command-line interface for nuvio.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/qarqun/NuvioStreaming/autoplay"
	"github.com/qarqun/NuvioStreaming/color"
	"github.com/qarqun/NuvioStreaming/fetch"
	"github.com/qarqun/NuvioStreaming/filesystem"
	"github.com/qarqun/NuvioStreaming/icon"
	"github.com/qarqun/NuvioStreaming/key"
	"github.com/qarqun/NuvioStreaming/log"
	"github.com/qarqun/NuvioStreaming/meta"
	"github.com/qarqun/NuvioStreaming/open"
	"github.com/qarqun/NuvioStreaming/player"
	"github.com/qarqun/NuvioStreaming/provider"
	"github.com/qarqun/NuvioStreaming/provider/addon"
	"github.com/qarqun/NuvioStreaming/provider/plugin"
	"github.com/qarqun/NuvioStreaming/rank"
	"github.com/qarqun/NuvioStreaming/section"
	"github.com/qarqun/NuvioStreaming/stream"
	"github.com/qarqun/NuvioStreaming/style"
	"github.com/qarqun/NuvioStreaming/util"

	"github.com/invopop/jsonschema"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(streamsCmd)

	streamsCmd.Flags().StringP("type", "t", "movie", "Content type of the id when it carries no season/episode suffix")
	lo.Must0(streamsCmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{string(meta.Movie), string(meta.Series)}, cobra.ShellCompDirectiveNoFileComp
	}))

	streamsCmd.Flags().StringP("from", "f", "", "Restrict output to a single provider or a meta group")
	lo.Must0(streamsCmd.RegisterFlagCompletionFunc("from", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{section.FilterAll, section.GroupedAddons, section.GroupedPlugins}, cobra.ShellCompDirectiveNoFileComp
	}))

	streamsCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	streamsCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")
	streamsCmd.Flags().BoolP("best", "b", false, "Print only the URL of the highest ranked stream")
	streamsCmd.Flags().BoolP("play", "p", false, "Pick a stream and hand it to the configured player")
	streamsCmd.Flags().BoolP("open", "O", false, "Pick a stream and open it with the system default handler")
	streamsCmd.Flags().BoolP("autoplay", "a", false, "Start playback of the best stream as soon as one arrives")
	lo.Must0(viper.BindPFlag(key.StreamsAutoplay, streamsCmd.Flags().Lookup("autoplay")))

	streamsCmd.Flags().IntP("timeout", "T", 0, "Soft deadline in seconds before pending providers are given up on")
	lo.Must0(viper.BindPFlag(key.StreamsTimeout, streamsCmd.Flags().Lookup("timeout")))

	streamsCmd.MarkFlagsMutuallyExclusive("best", "play", "open")
	streamsCmd.MarkFlagsMutuallyExclusive("json", "play", "open")
}

// streamsOutput is the structured result of a streams invocation.
type streamsOutput struct {
	Query    meta.Content      `json:"query"`
	Sections []section.Section `json:"sections"`
	Errored  []string          `json:"errored,omitempty"`
}

// streamsCmd aggregates playable streams for a movie or an episode across
// every installed addon and discovered plugin.
var streamsCmd = &cobra.Command{
	Use:   "streams <id>",
	Short: "Locate playable streams for a movie or an episode",
	Long: `Query every installed addon and discovered Lua plugin for playable
streams of the given content and present the merged, ranked results.

The id is an IMDb identifier, optionally suffixed with season and episode:
  tt0133093       - a movie
  tt0944947:3:9   - series tt0944947, season 3, episode 9

Provider selectors for the --from flag:
  all             - every provider (default)
  grouped-addons  - all addon results merged into a single list
  grouped-plugins - all plugin results merged into a single list
  [name]          - closest matching provider by name`,
	Example: "nuvio streams tt0944947:3:9 --from torrentio --play",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			jsonOut = lo.Must(cmd.Flags().GetBool("json"))
			best    = lo.Must(cmd.Flags().GetBool("best"))
			play    = lo.Must(cmd.Flags().GetBool("play"))
			quiet   = jsonOut || best
		)

		fallback, err := meta.ParseType(lo.Must(cmd.Flags().GetString("type")))
		handleErr(err)

		content, err := meta.Parse(args[0], fallback)
		handleErr(err)

		ctx := cmd.Context()

		var eraser func()
		if !quiet {
			eraser = util.PrintErasable(fmt.Sprintf("%s Loading sources...", icon.Get(icon.Progress)))
		}

		adapters := []provider.Adapter{addon.New(ctx), plugin.New()}
		installOrder := adapters[0].(*addon.Adapter).InstallOrder()
		policy := rank.PolicyFromConfig(installOrder)

		from, err := resolveProviderFilter(lo.Must(cmd.Flags().GetString("from")), adapters)
		handleErr(err)

		chosen := make(chan stream.Record, 1)
		controller := autoplay.New(
			viper.GetBool(key.StreamsAutoplay) && !quiet,
			policy,
			func(r stream.Record) {
				chosen <- r
			},
		)

		session := fetch.New(fetch.Options{
			Adapters: adapters,
			Timeout:  time.Duration(viper.GetInt(key.StreamsTimeout)) * time.Second,
			OnUpdate: controller.Observe,
		})

		handleErr(session.Fetch(ctx, content))
		controller.Begin(session.Snapshot().Generation)

		if !quiet {
			eraser()
			eraser = util.PrintErasable(fmt.Sprintf("%s Fetching streams for %s...", icon.Get(icon.Search), style.Fg(color.Purple)(content.String())))
		}

		snap := session.Wait(ctx)
		// The final snapshot may have settled between the last merge and
		// Wait returning, so give the autoplay controller one more look.
		controller.Observe(snap)

		if !quiet {
			eraser()
		}

		for _, name := range snap.Errored() {
			log.Warnf("provider %s failed to deliver streams", name)
		}

		sections := section.Build(snap, policy, section.ParseMode(viper.GetString(key.StreamsDisplayMode)), from)

		writer := io.Writer(os.Stdout)
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer util.Ignore(file.Close)
			writer = file
		}

		switch {
		case jsonOut:
			handleErr(json.NewEncoder(writer).Encode(streamsOutput{
				Query:    content,
				Sections: sections,
				Errored:  snap.Errored(),
			}))
			return
		case best:
			record, ok := rank.Best(snap.Providers, policy).Get()
			if !ok {
				handleErr(errors.New("no suitable stream found"))
			}

			_, _ = fmt.Fprintln(writer, record.URL)
			return
		}

		if section.StreamCount(sections) == 0 {
			fmt.Printf("%s no streams found for %s\n", icon.Get(icon.Fail), style.Fg(color.Purple)(content.String()))
			return
		}

		if controller.State() == autoplay.Triggered {
			playStream(<-chosen)
			return
		}

		printSections(writer, sections)

		openStream := lo.Must(cmd.Flags().GetBool("open"))
		if play || openStream {
			record, err := pickStream(sections)
			handleErr(err)

			if openStream {
				handleErr(open.Start(record.URL))
				return
			}

			playStream(record)
		}
	},
}

// resolveProviderFilter maps the --from flag onto a provider id. Meta group
// names pass through untouched; anything else is fuzzy matched against the
// providers the adapters actually know.
func resolveProviderFilter(from string, adapters []provider.Adapter) (string, error) {
	switch from {
	case "", section.FilterAll, section.GroupedAddons, section.GroupedPlugins:
		return from, nil
	}

	var infos []provider.Info
	for _, adapter := range adapters {
		infos = append(infos, adapter.Providers()...)
	}

	names := lo.Map(infos, func(info provider.Info, _ int) string {
		return info.Name
	})

	ranks := fuzzy.RankFindNormalizedFold(from, names)
	if len(ranks) == 0 {
		return "", fmt.Errorf("no provider matches %q", from)
	}

	sort.Sort(ranks)
	return infos[ranks[0].OriginalIndex].ID, nil
}

// pickStream asks the user to choose one stream out of the printed sections.
func pickStream(sections []section.Section) (stream.Record, error) {
	var (
		records []stream.Record
		options []string
	)

	for _, s := range sections {
		for _, r := range s.Records {
			records = append(records, r)
			options = append(options, fmt.Sprintf("%s %s", s.Title, r.String()))
		}
	}

	prompt := survey.Select{
		Message:  "Select a stream to play",
		Options:  options,
		PageSize: 15,
	}

	var index int
	if err := survey.AskOne(&prompt, &index); err != nil {
		return stream.Record{}, err
	}

	return records[index], nil
}

// playStream hands a stream to the configured player and blocks until
// playback ends.
func playStream(record stream.Record) {
	CheckDependencies()

	p := player.ForName(viper.GetString(key.PlayerApp))

	fmt.Printf(
		"%s playing %s\n",
		style.Fg(color.Green)(icon.Get(icon.Play)),
		style.Fg(color.Purple)(record.String()),
	)

	handleErr(p.Play(record.URL, record.String(), record.Headers))
	<-p.Wait()
	util.Ignore(p.Close)
}

// printSections renders the grouped stream listing for terminal consumption.
func printSections(writer io.Writer, sections []section.Section) {
	for _, s := range sections {
		_, _ = fmt.Fprintf(
			writer,
			"%s %s\n",
			style.Title(s.Title),
			style.Faint(util.Quantify(len(s.Records), "stream", "streams")),
		)

		for _, r := range s.Records {
			line := "  " + style.Fg(color.Yellow)(rank.QualityLabel(rank.Quality(r.Title)))

			if r.Cached {
				line += " " + icon.Get(icon.Lightning)
			}

			line += " " + r.String()

			if r.SizeBytes > 0 {
				line += " " + style.Faint(formatSize(r.SizeBytes))
			}

			_, _ = fmt.Fprintln(writer, line)
		}

		_, _ = fmt.Fprintln(writer)
	}
}

// formatSize renders a byte count the way providers usually advertise it.
func formatSize(bytes int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
		gb = 1 << 30
	)

	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.2f GB", float64(bytes)/gb)
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/mb)
	case bytes >= kb:
		return fmt.Sprintf("%.0f KB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func init() {
	streamsCmd.AddCommand(streamsSchemaCmd)
}

// streamsSchemaCmd generates the JSON schema for the structured streams output.
var streamsSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema for the structured streams output",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true

		schema := reflector.Reflect(&streamsOutput{})
		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
