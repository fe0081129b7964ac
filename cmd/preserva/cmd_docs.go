package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"preserva/internal/api"
	"preserva/internal/document"
)

var (
	listSearch    string
	listStatus    string
	listMetaField string
	listMetaValue string
	listDateFrom  string
	listDateTo    string

	uploadName string
	uploadFile string
	uploadMeta []string

	deleteYes   bool
	downloadOut string
)

const docsTimeout = 2 * time.Minute

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Work with preserved documents",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := buildWorkspace()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), docsTimeout)
		defer cancel()
		docs, err := ws.client.ListDocuments(ctx)
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}

		crit, err := listCriteria()
		if err != nil {
			return err
		}
		filtered := document.Filter(docs, crit)
		if len(filtered) == 0 {
			if crit.Active() {
				fmt.Println("Nenhum documento corresponde aos filtros.")
			} else {
				fmt.Println("Nenhum documento encontrado.")
			}
			return nil
		}
		for _, d := range filtered {
			fmt.Printf("%-38s %-14s %-12s %s\n", d.ID, d.Status.Label(), d.CreatedDisplay(), d.Name)
		}
		fmt.Printf("\n%d documento(s)\n", len(filtered))
		return nil
	},
}

var docsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one document with its metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := buildWorkspace()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), docsTimeout)
		defer cancel()
		d, err := ws.client.GetDocument(ctx, args[0])
		if err != nil {
			return fmt.Errorf("get: %w", err)
		}
		fmt.Printf("Nome:    %s\n", d.Name)
		fmt.Printf("Status:  %s\n", d.Status.Label())
		fmt.Printf("Enviado: %s\n", d.CreatedDisplay())
		if len(d.Metadata) > 0 {
			fmt.Println("Metadados:")
			for _, k := range sortedKeys(d.Metadata) {
				fmt.Printf("  %s: %s\n", k, document.MetadataString(d.Metadata[k]))
			}
		}
		return nil
	},
}

var docsUploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Send a PDF with descriptive metadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		if uploadName == "" {
			return fmt.Errorf("--name é obrigatório")
		}
		if uploadFile == "" {
			return fmt.Errorf("--file é obrigatório")
		}
		if !strings.EqualFold(filepath.Ext(uploadFile), ".pdf") {
			return fmt.Errorf("apenas arquivos PDF são aceitos")
		}
		if _, err := os.Stat(uploadFile); err != nil {
			return fmt.Errorf("arquivo não encontrado: %s", uploadFile)
		}
		meta := document.Metadata{}
		for _, kv := range uploadMeta {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || k == "" {
				return fmt.Errorf("metadado inválido %q (use chave=valor)", kv)
			}
			meta[k] = v
		}

		ws, err := buildWorkspace()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), docsTimeout)
		defer cancel()
		d, err := ws.client.UploadDocument(ctx, api.Upload{
			Name:     uploadName,
			FilePath: uploadFile,
			Metadata: meta,
		})
		if err != nil {
			return fmt.Errorf("upload: %w", err)
		}
		fmt.Printf("Documento enviado: %s (%s)\n", d.Name, d.ID)
		return nil
	},
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !deleteYes {
			return fmt.Errorf("exclusão é permanente; repita com --yes para confirmar")
		}
		ws, err := buildWorkspace()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), docsTimeout)
		defer cancel()
		if err := ws.client.DeleteDocument(ctx, args[0]); err != nil {
			return fmt.Errorf("delete: %w", err)
		}
		fmt.Println("Documento excluído com sucesso!")
		return nil
	},
}

var docsDownloadCmd = &cobra.Command{
	Use:   "download <id>",
	Short: "Download the preserved PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := buildWorkspace()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), docsTimeout)
		defer cancel()

		out := downloadOut
		if out == "" {
			d, err := ws.client.GetDocument(ctx, args[0])
			if err != nil {
				return fmt.Errorf("download: %w", err)
			}
			out = d.Name
			if !strings.EqualFold(filepath.Ext(out), ".pdf") {
				out += ".pdf"
			}
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := ws.client.Download(ctx, args[0], f); err != nil {
			os.Remove(out)
			return fmt.Errorf("download: %w", err)
		}
		fmt.Printf("Salvo em %s\n", out)
		return nil
	},
}

var docsShareCmd = &cobra.Command{
	Use:   "share <id>",
	Short: "Print the public link for a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := buildWorkspace()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), docsTimeout)
		defer cancel()
		d, err := ws.client.GetDocument(ctx, args[0])
		if err != nil {
			return fmt.Errorf("share: %w", err)
		}
		link := document.ShareLink(ws.cfg.Share.Origin, d.ID)
		fmt.Println(link)
		fmt.Printf("WhatsApp: %s\n", document.ShareWhatsApp(d.Name, link))
		fmt.Printf("Telegram: %s\n", document.ShareTelegram(d.Name, link))
		fmt.Printf("E-mail:   %s\n", document.ShareMailto(d.Name, link))
		return nil
	},
}

// listCriteria builds filter criteria from the list flags. Dates use
// YYYY-MM-DD; a malformed date is an error here rather than silently ignored.
func listCriteria() (document.Criteria, error) {
	c := document.NeutralCriteria()
	c.Text = listSearch
	if listStatus != "" {
		c.Status = listStatus
	}
	if listMetaField != "" {
		c.MetadataField = listMetaField
	}
	c.MetadataValue = listMetaValue
	if listDateFrom != "" {
		t, err := time.Parse("2006-01-02", listDateFrom)
		if err != nil {
			return c, fmt.Errorf("--from: data inválida %q", listDateFrom)
		}
		c.DateFrom = &t
	}
	if listDateTo != "" {
		t, err := time.Parse("2006-01-02", listDateTo)
		if err != nil {
			return c, fmt.Errorf("--to: data inválida %q", listDateTo)
		}
		c.DateTo = &t
	}
	return c, nil
}

func sortedKeys(m document.Metadata) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	docsListCmd.Flags().StringVar(&listSearch, "search", "", "substring match on document name")
	docsListCmd.Flags().StringVar(&listStatus, "status", "", "exact status (INICIADO, PROCESSANDO, PRESERVADO, FALHA)")
	docsListCmd.Flags().StringVar(&listMetaField, "meta-field", "", "metadata field to match")
	docsListCmd.Flags().StringVar(&listMetaValue, "meta-value", "", "metadata value substring")
	docsListCmd.Flags().StringVar(&listDateFrom, "from", "", "only documents created after this date (YYYY-MM-DD)")
	docsListCmd.Flags().StringVar(&listDateTo, "to", "", "only documents created up to this date (YYYY-MM-DD)")

	docsUploadCmd.Flags().StringVar(&uploadName, "name", "", "document display name")
	docsUploadCmd.Flags().StringVar(&uploadFile, "file", "", "path to the PDF")
	docsUploadCmd.Flags().StringArrayVar(&uploadMeta, "meta", nil, "metadata entry as chave=valor (repeatable)")

	docsDeleteCmd.Flags().BoolVar(&deleteYes, "yes", false, "skip the confirmation check")

	docsDownloadCmd.Flags().StringVarP(&downloadOut, "output", "o", "", "output path (defaults to the document name)")

	docsCmd.AddCommand(docsListCmd, docsGetCmd, docsUploadCmd, docsDeleteCmd, docsDownloadCmd, docsShareCmd)
	rootCmd.AddCommand(docsCmd)
}
