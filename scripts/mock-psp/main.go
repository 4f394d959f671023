// Command mock-psp runs a local stand-in for the Paystack and Payrant APIs
// for development without live credentials.
//
//	go run ./scripts/mock-psp
//	KUDI_PAYSTACK_BASE_URL=http://localhost:8081 KUDI_PAYRANT_BASE_URL=http://localhost:8081 ./kudi
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

type envelope struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func main() {
	port := ":8081"

	http.HandleFunc("/transaction/initialize", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ref := fmt.Sprintf("mock_ref_%d", time.Now().UnixNano())
		writeJSON(w, http.StatusOK, envelope{
			Status:  true,
			Message: "Authorization URL created",
			Data: map[string]string{
				"authorization_url": "https://checkout.paystack.com/mock_auth_url",
				"access_code":       "mock_access_code",
				"reference":         ref,
			},
		})
		log.Printf("initialized mock charge %s", ref)
	})

	http.HandleFunc("/transaction/verify/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, envelope{
			Status:  true,
			Message: "Verification successful",
			Data: map[string]interface{}{
				"id":        int64(1234567890),
				"status":    "success",
				"reference": r.URL.Path[len("/transaction/verify/"):],
				"amount":    500000,
				"currency":  "NGN",
				"paid_at":   time.Now().Format(time.RFC3339),
			},
		})
	})

	http.HandleFunc("/bank", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, envelope{
			Status:  true,
			Message: "Banks retrieved",
			Data: []map[string]interface{}{
				{"name": "Guaranty Trust Bank", "code": "058", "currency": "NGN"},
				{"name": "Access Bank", "code": "044", "currency": "NGN"},
				{"name": "Wema Bank", "code": "035", "currency": "NGN"},
			},
		})
	})

	http.HandleFunc("/bank/resolve", func(w http.ResponseWriter, r *http.Request) {
		account := r.URL.Query().Get("account_number")
		if len(account) != 10 {
			writeJSON(w, http.StatusUnprocessableEntity, envelope{
				Status:  false,
				Message: "Could not resolve account name. Check parameters or try again.",
			})
			return
		}
		writeJSON(w, http.StatusOK, envelope{
			Status:  true,
			Message: "Account number resolved",
			Data: map[string]string{
				"account_number": account,
				"account_name":   "MOCK ACCOUNT HOLDER",
			},
		})
	})

	http.HandleFunc("/dedicated_account/assign", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, envelope{
			Status:  true,
			Message: "Assign dedicated account in progress",
		})
	})

	// Payrant shape differs from Paystack's envelope
	http.HandleFunc("/virtual-account", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{
			"account_no":         fmt.Sprintf("90%08d", time.Now().UnixNano()%100000000),
			"virtualAccountName": "MOCK VIRTUAL ACCOUNT",
			"bank_name":          "PalmPay",
			"reference":          fmt.Sprintf("mock_va_%d", time.Now().UnixNano()),
		})
	})

	log.Printf("mock PSP server starting on %s...", port)
	if err := http.ListenAndServe(port, nil); err != nil {
		log.Fatal(err)
	}
}
