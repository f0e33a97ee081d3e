package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rushteam/scholarfeed/core"
)

var feedIdentity string

var feedCmd = &cobra.Command{
	Use:       "feed <follow|subscription|hot>",
	Short:     "Compute a feed and print it as JSON",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(core.FeedFollow), string(core.FeedSubscription), string(core.FeedHot)},
	Example: `  scholarfeed feed hot
  scholarfeed feed follow --identity alice`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := core.FeedKind(args[0])
		if !kind.Valid() {
			return fmt.Errorf("unknown feed %q", args[0])
		}
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.feeds.Get(cmd.Context(), kind, feedIdentity)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	feedCmd.Flags().StringVarP(&feedIdentity, "identity", "i", "", "requester identity (required for follow)")
}
