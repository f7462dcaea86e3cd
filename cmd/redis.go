package cmd

import (
	"fmt"
	"time"

	"LabelCMS/cache"

	"github.com/spf13/cobra"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Check the Redis connection",
	Long:  `Connect to Redis and run a save/consume round trip through the OAuth state store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Redis: %s, DB: %d\n", cfg.RedisAddr(), cfg.RedisDB)

		client, err := cache.NewClient(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer client.Close()

		states := cache.NewRedisStateStore(client)
		state := fmt.Sprintf("healthcheck-%d", time.Now().UnixNano())
		if err := states.Save(cmd.Context(), state); err != nil {
			return err
		}
		ok, err := states.Consume(cmd.Context(), state)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("state written to redis could not be read back")
		}
		fmt.Println("Redis connection OK.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
