package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peroute/hackwest-project/internal/db/sqldb"
	questionrepo "github.com/peroute/hackwest-project/internal/repository/question"
	conversationuc "github.com/peroute/hackwest-project/internal/usecase/conversation"
)

func pruneCMD(env *string) *cobra.Command {
	var keep int
	var userID int64

	var prune = &cobra.Command{
		Use:   "prune",
		Short: "Delete old question history, keeping the newest turns per user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(*env)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if !cmd.Flags().Changed("keep") {
				keep = cfg.Retention.KeepCount
			}
			if keep < 0 {
				return fmt.Errorf("keep must be >= 0, got %d", keep)
			}

			d, err := sqldb.Open(cmd.Context(), cfg.Database.DSN)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = d.Close() }()

			conv := conversationuc.New(questionrepo.New(d), cfg.Conversation.AnswerBudget, logger)

			var deleted int64
			if userID > 0 {
				deleted, err = conv.Prune(cmd.Context(), userID, keep)
			} else {
				deleted, err = conv.PruneAll(cmd.Context(), keep)
			}
			if err != nil {
				return fmt.Errorf("prune history: %w", err)
			}
			logger.Info("History pruned",
				zap.Int64("user_id", userID),
				zap.Int("keep", keep),
				zap.Int64("deleted", deleted),
			)
			return nil
		},
	}
	prune.Flags().IntVar(&keep, "keep", 10, "turns to keep per user (default retention.keep_count)")
	prune.Flags().Int64Var(&userID, "user", 0, "prune a single user (0 = all users)")

	return prune
}
