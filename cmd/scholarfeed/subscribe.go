package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	subIdentity string
	subScholars []string
	subTopics   []string
)

var subscribeCmd = &cobra.Command{
	Use:   "subscribe",
	Short: "Follow scholars or subscribe to topics for an identity",
	Example: `  scholarfeed subscribe -i alice --scholar "Geoffrey Hinton"
  scholarfeed subscribe -i alice --topic Robotics --topic "Graph Neural Networks"`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if subIdentity == "" {
			return fmt.Errorf("--identity is required")
		}
		if len(subScholars) == 0 && len(subTopics) == 0 {
			return fmt.Errorf("nothing to subscribe: pass --scholar or --topic")
		}
		if err := requirePersistentStore(cfg); err != nil {
			return err
		}
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		for _, s := range subScholars {
			if err := a.subs.AddScholar(ctx, subIdentity, s); err != nil {
				return err
			}
		}
		for _, t := range subTopics {
			if err := a.subs.AddTopic(ctx, subIdentity, t); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d scholars, %d topics added\n", subIdentity, len(subScholars), len(subTopics))
		return nil
	},
}

func init() {
	subscribeCmd.Flags().StringVarP(&subIdentity, "identity", "i", "", "subscriber identity")
	subscribeCmd.Flags().StringArrayVar(&subScholars, "scholar", nil, "scholar name to follow (repeatable)")
	subscribeCmd.Flags().StringArrayVar(&subTopics, "topic", nil, "topic to subscribe (repeatable)")
}
