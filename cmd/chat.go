package cmd

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/bookgraph/internal/chatwidget"
	"github.com/ziadkadry99/bookgraph/internal/tui"
)

var chatBook string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the catalog assistant in the terminal",
	Long: `Opens the chat widget in the terminal. With --book the conversation is
about that book, as on its detail page.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		page, query := "/index.html", url.Values{}
		if chatBook != "" {
			page = "/book_details.html"
			query.Set("id", chatBook)
		}

		client := chatwidget.NewClient(cfg.ChatbotURL, cfg.Timeout())
		widget := chatwidget.New(client, page, query)
		return tui.New(widget).Run(cmd.Context())
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatBook, "book", "", "book id to talk about")
	rootCmd.AddCommand(chatCmd)
}
