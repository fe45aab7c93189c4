package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "splitledger-cli",
		Short: "SplitLedger CLI tool",
		Long:  `A command line interface for interacting with the SplitLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the SplitLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	payCmd := &cobra.Command{
		Use:   "pay <user> <counterparty> <amount> <currency>",
		Short: "Record that a user paid a counterparty",
		Args:  cobra.ExactArgs(4),
		Run: func(cmd *cobra.Command, args []string) {
			recordPayment(args[0], args[1], args[2], args[3], "paid", false)
		},
	}

	receiveCmd := &cobra.Command{
		Use:   "receive <user> <counterparty> <amount> <currency>",
		Short: "Record that a user received money from a counterparty",
		Args:  cobra.ExactArgs(4),
		Run: func(cmd *cobra.Command, args []string) {
			recordPayment(args[0], args[1], args[2], args[3], "received", false)
		},
	}

	settleCmd := &cobra.Command{
		Use:   "settle <user> <counterparty>",
		Short: "Settle the outstanding balance between a user and a counterparty",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			// Amount is ignored for settlements; the service uses the
			// outstanding balance.
			recordPayment(args[0], args[1], "0", "USD", "paid", true)
		},
	}

	balancesCmd := &cobra.Command{
		Use:   "balances <user>",
		Short: "Show what a user is owed and what they owe",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			showBalances(args[0])
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history <user> <counterparty>",
		Short: "Show the transaction history between a user and a counterparty",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			showHistory(args[0], args[1])
		},
	}

	rootCmd.AddCommand(payCmd, receiveCmd, settleCmd, balancesCmd, historyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func recordPayment(userID, counterpartyID, amount, currency, direction string, settlement bool) {
	payload := map[string]any{
		"user_id":         userID,
		"counterparty_id": counterpartyID,
		"amount":          amount,
		"currency":        currency,
		"direction":       direction,
		"settlement":      settlement,
	}

	body, _ := json.Marshal(payload)

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/payments", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusCreated {
		fmt.Printf("Record FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(respBody))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(respBody, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Recorded transaction %s\n", result["id"])
}

func showBalances(userID string) {
	receivable := fetchBalances(userID, "receivable")
	payable := fetchBalances(userID, "payable")

	fmt.Printf("Owed to %s:\n", userID)
	if len(receivable) == 0 {
		fmt.Println("  (nothing)")
	}
	for _, b := range receivable {
		fmt.Printf("  %s owes %s %s\n", b["participant_id"], b["balance"], b["currency"])
	}

	fmt.Printf("%s owes:\n", userID)
	if len(payable) == 0 {
		fmt.Println("  (nothing)")
	}
	for _, b := range payable {
		fmt.Printf("  %s %s to %s\n", b["balance"], b["currency"], b["participant_id"])
	}
}

func fetchBalances(userID, kind string) []map[string]any {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/users/" + url.PathEscape(userID) + "/" + kind)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Balance query FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result []map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	return result
}

func showHistory(userID, counterpartyID string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/users/" + url.PathEscape(userID) + "/transactions/" + url.PathEscape(counterpartyID))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("History query FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var txns []map[string]any
	if err := json.Unmarshal(body, &txns); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if len(txns) == 0 {
		fmt.Println("No transactions")
		return
	}

	for _, t := range txns {
		if paid, ok := t["paid_to"].(map[string]any); ok && paid != nil {
			fmt.Printf("%s paid %s %s to %s\n", t["user_id"], paid["amount"], paid["currency"], paid["user_id"])
			continue
		}
		if recv, ok := t["received_from"].(map[string]any); ok && recv != nil {
			fmt.Printf("%s received %s %s from %s\n", t["user_id"], recv["amount"], recv["currency"], recv["user_id"])
		}
	}
}
