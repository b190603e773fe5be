package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"railctl/internal/cli/appctx"
)

var attachmentsCmd = &cobra.Command{
	Use:   "attachments",
	Short: "Manage attachments",
}

var attachmentsAddToCaseCmd = &cobra.Command{
	Use:   "add-to-case <case-id> <file>",
	Short: "Upload a file to a case",
	Args:  cobra.ExactArgs(2),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runAttachmentsAddToCase),
}

var attachmentsAddToResultCmd = &cobra.Command{
	Use:   "add-to-result <result-id> <file>",
	Short: "Upload a file to a result",
	Args:  cobra.ExactArgs(2),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runAttachmentsAddToResult),
}

var attachmentsListForCaseCmd = &cobra.Command{
	Use:   "list-for-case <case-id>",
	Short: "List the attachments of a case",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runAttachmentsListForCase),
}

var attachmentsListForTestCmd = &cobra.Command{
	Use:   "list-for-test <test-id>",
	Short: "List the attachments of a test",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runAttachmentsListForTest),
}

var attachmentsGetCmd = &cobra.Command{
	Use:   "get <attachment-id>",
	Short: "Download an attachment",
	Long: `Downloads the attachment body. With --file the bytes go to that
file, otherwise to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: appctx.WithApp(appctx.DefaultOptions(), runAttachmentsGet),
}

var attachmentsDeleteCmd = &cobra.Command{
	Use:   "delete <attachment-id>",
	Short: "Delete an attachment",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runAttachmentsDelete),
}

var attachmentsGetFile string

func init() {
	rootCmd.AddCommand(attachmentsCmd)
	attachmentsCmd.AddCommand(attachmentsAddToCaseCmd)
	attachmentsCmd.AddCommand(attachmentsAddToResultCmd)
	attachmentsCmd.AddCommand(attachmentsListForCaseCmd)
	attachmentsCmd.AddCommand(attachmentsListForTestCmd)
	attachmentsCmd.AddCommand(attachmentsGetCmd)
	attachmentsCmd.AddCommand(attachmentsDeleteCmd)

	attachmentsGetCmd.Flags().StringVar(&attachmentsGetFile, "file", "", "Destination file (default stdout)")
}

func runAttachmentsAddToCase(app *appctx.App, cmd *cobra.Command, args []string) error {
	caseID, err := idArg("case", args[0])
	if err != nil {
		return err
	}
	attachmentID, err := app.Client.AddAttachmentToCase(cmd.Context(), caseID, args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s as attachment %d\n", args[1], attachmentID)
	return nil
}

func runAttachmentsAddToResult(app *appctx.App, cmd *cobra.Command, args []string) error {
	resultID, err := idArg("result", args[0])
	if err != nil {
		return err
	}
	attachmentID, err := app.Client.AddAttachmentToResult(cmd.Context(), resultID, args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s as attachment %d\n", args[1], attachmentID)
	return nil
}

func runAttachmentsListForCase(app *appctx.App, cmd *cobra.Command, args []string) error {
	caseID, err := idArg("case", args[0])
	if err != nil {
		return err
	}
	attachments, err := app.Client.GetAttachmentsForCase(cmd.Context(), caseID)
	if err != nil {
		return err
	}
	return app.Out.Render(attachments)
}

func runAttachmentsListForTest(app *appctx.App, cmd *cobra.Command, args []string) error {
	testID, err := idArg("test", args[0])
	if err != nil {
		return err
	}
	attachments, err := app.Client.GetAttachmentsForTest(cmd.Context(), testID)
	if err != nil {
		return err
	}
	return app.Out.Render(attachments)
}

func runAttachmentsGet(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("attachment", args[0])
	if err != nil {
		return err
	}
	if attachmentsGetFile == "" || attachmentsGetFile == "-" {
		return app.Client.GetAttachment(cmd.Context(), id, cmd.OutOrStdout())
	}
	f, err := os.Create(attachmentsGetFile)
	if err != nil {
		return fmt.Errorf("create %s: %w", attachmentsGetFile, err)
	}
	if err := app.Client.GetAttachment(cmd.Context(), id, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", attachmentsGetFile, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", attachmentsGetFile)
	return nil
}

func runAttachmentsDelete(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("attachment", args[0])
	if err != nil {
		return err
	}
	if err := app.Client.DeleteAttachment(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted attachment %d\n", id)
	return nil
}
