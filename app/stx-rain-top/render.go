package main

import (
	"fmt"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stxrain/go-stx-rain/api"
	"io"
)

const shortIDLength = 18

func renderSnapshot(w io.Writer, snapshot api.TransactionsResponse) {
	block := "-"
	if snapshot.Block != nil {
		block = fmt.Sprintf("%d", *snapshot.Block)
	}
	fmt.Fprintf(w, "Block %s | %d txs | %s STX | ~%d senders\n", block, snapshot.Count, snapshot.Volume.StringFixed(6), snapshot.UniqueSenders)
	if snapshot.Error != "" {
		fmt.Fprintf(w, "Last poll failed: %s\n", snapshot.Error)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Tx", "Kind", "Amount STX", "Status", "Sender"})
	for _, tx := range snapshot.Transactions {
		t.AppendRow(table.Row{
			shortID(tx.ID),
			tx.Kind,
			tx.DisplayAmount().StringFixed(6),
			tx.Status,
			tx.Sender,
		})
	}
	t.Render()
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength-3] + "..."
}
