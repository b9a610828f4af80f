package cli

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/monaco-dca/monaco/smartcontract/sdk/go/idl"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type IDLCmd struct{}

func NewIDLCmd() *IDLCmd {
	return &IDLCmd{}
}

func (c *IDLCmd) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "idl",
		Short: "Show the instructions described by the program IDL",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGlobalFlags(cmd)
			if err != nil {
				return err
			}
			program, err := g.loadIDL()
			if err != nil {
				return fmt.Errorf("failed to load idl: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", program.Name, program.Version)
			if program.Metadata != nil && program.Metadata.Address != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "address: %s\n", program.Metadata.Address)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetAutoWrapText(false)
			table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
			table.SetAutoFormatHeaders(false)
			table.SetBorder(true)
			table.SetRowLine(true)
			table.SetHeader([]string{
				"Instruction",
				"Discriminator",
				"Accounts",
				"Signers",
				"Args",
			})
			for _, ix := range program.Instructions {
				disc := ix.Discriminator()
				flat := ix.FlattenAccounts()
				table.Append([]string{
					ix.Name,
					hex.EncodeToString(disc[:]),
					strconv.Itoa(len(flat)),
					strings.Join(signerNames(flat), ","),
					strings.Join(argNames(ix.Args), ","),
				})
			}
			table.Render()
			return nil
		},
	}
}

func signerNames(accounts []idl.AccountItem) []string {
	var names []string
	for _, acct := range accounts {
		if acct.IsSigner {
			names = append(names, acct.Name)
		}
	}
	return names
}

func argNames(args []idl.Field) []string {
	names := make([]string, 0, len(args))
	for _, arg := range args {
		names = append(names, arg.Name)
	}
	return names
}
