// Package cmd implements the command-line interface for nuvio.
package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/qarqun/NuvioStreaming/color"
	"github.com/qarqun/NuvioStreaming/constant"
	"github.com/qarqun/NuvioStreaming/filesystem"
	"github.com/qarqun/NuvioStreaming/icon"
	"github.com/qarqun/NuvioStreaming/key"
	"github.com/qarqun/NuvioStreaming/provider/addon"
	"github.com/qarqun/NuvioStreaming/provider/plugin"
	"github.com/qarqun/NuvioStreaming/style"
	"github.com/qarqun/NuvioStreaming/util"
	"github.com/qarqun/NuvioStreaming/where"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

// sourcesCmd provides a parent command for managing stream sources.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage installed addons and local Lua plugins",
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd)

	sourcesListCmd.Flags().BoolP("raw", "r", false, "Suppress header and metadata descriptions in the output")
	sourcesListCmd.Flags().BoolP("addons", "a", false, "Display only installed network addons")
	sourcesListCmd.Flags().BoolP("plugins", "p", false, "Display only local Lua plugins")

	sourcesListCmd.MarkFlagsMutuallyExclusive("addons", "plugins")
	sourcesListCmd.SetOut(os.Stdout)
}

// sourcesListCmd displays a summary of all configured stream sources.
var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display a collection of all configured stream sources",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader := !lo.Must(cmd.Flags().GetBool("raw"))
		headerStyle := style.New().Foreground(color.HiBlue).Bold(true).Render
		h := func(s string) {
			if printHeader {
				cmd.Println(headerStyle(s))
			}
		}

		printAddons := func() {
			h("Addons:")
			for _, m := range addon.New(cmd.Context()).Manifests() {
				if printHeader {
					cmd.Println(m.String())
				} else {
					cmd.Println(m.Name)
				}
			}
		}

		printPlugins := func() {
			h("Plugins:")
			for _, p := range plugin.New().Plugins() {
				if printHeader {
					cmd.Println(fmt.Sprintf("%s %s", p.Name, style.Faint(util.Quantify(len(p.Scripts), "script", "scripts"))))
				} else {
					cmd.Println(p.Name)
				}
			}
		}

		switch {
		case lo.Must(cmd.Flags().GetBool("addons")):
			printAddons()
		case lo.Must(cmd.Flags().GetBool("plugins")):
			printPlugins()
		default:
			printAddons()
			if printHeader {
				cmd.Println()
			}
			printPlugins()
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesSearchCmd)
	sourcesSearchCmd.SetOut(os.Stdout)
}

// sourcesSearchCmd fuzzy searches configured sources by name.
var sourcesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy search configured sources by name",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var names []string

		for _, m := range addon.New(cmd.Context()).Manifests() {
			names = append(names, m.Name)
		}

		for _, p := range plugin.New().Plugins() {
			names = append(names, p.Name)
		}

		for _, name := range fuzzy.FindNormalizedFold(args[0], names) {
			cmd.Println(name)
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesInstallCmd)

	sourcesInstallCmd.Flags().StringP("url", "u", "", "The manifest URL of the addon to install")
	lo.Must0(sourcesInstallCmd.MarkFlagRequired("url"))
}

// sourcesInstallCmd registers a new addon by its manifest URL.
var sourcesInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Register a new addon by its manifest URL",
	Run: func(cmd *cobra.Command, args []string) {
		url := lo.Must(cmd.Flags().GetString("url"))

		manifest, err := addon.FetchManifest(cmd.Context(), url)
		handleErr(err)

		installed := viper.GetStringSlice(key.AddonsInstalled)
		if lo.Contains(installed, url) {
			handleErr(fmt.Errorf("addon already installed: %s", manifest.Name))
		}

		viper.Set(key.AddonsInstalled, append(installed, url))
		switch err := viper.WriteConfig(); err.(type) {
		case viper.ConfigFileNotFoundError:
			handleErr(viper.SafeWriteConfig())
		default:
			handleErr(err)
		}

		fmt.Printf("%s installed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(manifest.String()))
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesRemoveCmd)

	sourcesRemoveCmd.Flags().StringArrayP("addon", "a", []string{}, "Specify the manifest URL of the addon(s) to uninstall")
	sourcesRemoveCmd.Flags().StringArrayP("plugin", "p", []string{}, "Specify the name of the Lua plugin script(s) to remove")

	lo.Must0(sourcesRemoveCmd.RegisterFlagCompletionFunc("plugin", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		scripts, err := filesystem.API().ReadDir(where.Plugins())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		return lo.FilterMap(scripts, func(item os.FileInfo, _ int) (string, bool) {
			name := item.Name()
			if !strings.HasSuffix(name, ".lua") {
				return "", false
			}

			return util.FileStem(filepath.Base(name)), true
		}), cobra.ShellCompDirectiveNoFileComp
	}))
}

// sourcesRemoveCmd uninstalls addons and removes local plugin scripts.
var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Uninstall addons or permanently remove local Lua plugin scripts",
	PreRun: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("addon") && !cmd.Flags().Changed("plugin") {
			handleErr(fmt.Errorf("either --addon or --plugin must be set"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if urls := lo.Must(cmd.Flags().GetStringArray("addon")); len(urls) > 0 {
			installed := viper.GetStringSlice(key.AddonsInstalled)

			for _, url := range urls {
				if !lo.Contains(installed, url) {
					handleErr(fmt.Errorf("addon not installed: %s", url))
				}

				installed = lo.Without(installed, url)
				fmt.Printf("%s removed addon %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(url))
			}

			viper.Set(key.AddonsInstalled, installed)
			switch err := viper.WriteConfig(); err.(type) {
			case viper.ConfigFileNotFoundError:
				handleErr(viper.SafeWriteConfig())
			default:
				handleErr(err)
			}
		}

		for _, name := range lo.Must(cmd.Flags().GetStringArray("plugin")) {
			path := filepath.Join(where.Plugins(), name+".lua")
			handleErr(filesystem.API().Remove(path))
			fmt.Printf("%s removed plugin script %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesGenCmd)

	sourcesGenCmd.Flags().StringP("name", "n", "", "The display name of the new plugin")
	sourcesGenCmd.Flags().StringP("url", "u", "", "The base URL of the site the plugin scrapes")

	lo.Must0(sourcesGenCmd.MarkFlagRequired("name"))
	lo.Must0(sourcesGenCmd.MarkFlagRequired("url"))
}

// sourcesGenCmd scaffolds a boilerplate Lua plugin script.
var sourcesGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Scaffold a new Lua plugin script using a predefined template",
	Long:  `Generate a boilerplate Lua plugin script with the required globals and metadata.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SetOut(os.Stdout)

		var author string
		usr, err := user.Current()
		if err == nil {
			author = usr.Username
		} else {
			author = "Anonymous"
		}

		s := struct {
			Name       string
			URL        string
			Author     string
			NameGlobal string
			StreamsFn  string
		}{
			Name:       lo.Must(cmd.Flags().GetString("name")),
			URL:        lo.Must(cmd.Flags().GetString("url")),
			Author:     author,
			NameGlobal: constant.PluginNameGlobal,
			StreamsFn:  constant.PluginStreamsFn,
		}

		funcMap := template.FuncMap{
			"repeat": strings.Repeat,
			"plus":   func(a, b int) int { return a + b },
			"max":    util.Max[int],
		}

		tmpl, err := template.New("plugin").Funcs(funcMap).Parse(constant.PluginTemplate)
		handleErr(err)

		target := filepath.Join(where.Plugins(), util.SanitizeFilename(s.Name)+".lua")
		f, err := filesystem.API().Create(target)
		handleErr(err)

		defer util.Ignore(f.Close)

		err = tmpl.Execute(f, s)
		handleErr(err)

		cmd.Println(target)
	},
}
