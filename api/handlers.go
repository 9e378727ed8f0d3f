package api

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type transactionRequest struct {
	Sender    string  `json:"sender_blockchain_address"`
	Recipient string  `json:"recipient_blockchain_address"`
	Value     float64 `json:"value"`
	PublicKey string  `json:"sender_public_key"`
	Signature string  `json:"signature"`
}

func (r transactionRequest) missingField() bool {
	return r.Sender == "" || r.Recipient == "" || r.PublicKey == "" || r.Signature == ""
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("failed to encode response body", "error", err)
		}
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func handleGetChain(n Node) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		c := n.Chain()
		writeJSON(w, http.StatusOK, map[string]interface{}{"chain": c, "length": len(c)})
	}
}

func handleGetTransactions(n Node) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		pool := n.Pool()
		writeJSON(w, http.StatusOK, map[string]interface{}{"transactions": pool, "length": len(pool)})
	}
}

func decodeTransactionRequest(r *http.Request) (transactionRequest, bool) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return transactionRequest{}, false
	}
	return req, !req.missingField()
}

func handlePostTransaction(n Node) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		req, ok := decodeTransactionRequest(r)
		if !ok {
			writeMessage(w, http.StatusBadRequest, "missing or malformed transaction fields")
			return
		}
		if !n.CreateTransaction(req.Sender, req.Recipient, req.Value, req.PublicKey, req.Signature) {
			writeMessage(w, http.StatusBadRequest, "transaction rejected")
			return
		}
		writeMessage(w, http.StatusCreated, "transaction accepted")
	}
}

func handlePutTransaction(n Node) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		req, ok := decodeTransactionRequest(r)
		if !ok {
			writeMessage(w, http.StatusBadRequest, "missing or malformed transaction fields")
			return
		}
		if !n.AddTransaction(req.Sender, req.Recipient, req.Value, req.PublicKey, req.Signature) {
			writeMessage(w, http.StatusBadRequest, "transaction rejected")
			return
		}
		writeMessage(w, http.StatusOK, "transaction accepted")
	}
}

func handleDeleteTransactions(n Node) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		n.ClearPool()
		writeMessage(w, http.StatusOK, "pool cleared")
	}
}

func handleMine(n Node) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		block, ok := n.MineOnce()
		if !ok {
			writeMessage(w, http.StatusBadRequest, "mining skipped")
			return
		}
		writeJSON(w, http.StatusOK, block)
	}
}

func handleMineStart(n Node) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		n.StartMining()
		writeMessage(w, http.StatusOK, "mining loop started")
	}
}

func handleConsensus(n Node) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		replaced := n.ResolveConflicts()
		writeJSON(w, http.StatusOK, map[string]bool{"replaced": replaced})
	}
}

func handleAmount(n Node) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		address := r.URL.Query().Get("blockchain_address")
		if address == "" {
			writeMessage(w, http.StatusBadRequest, "blockchain_address is required")
			return
		}
		amount := n.Balance(address)
		writeJSON(w, http.StatusOK, map[string]float64{"amount": amount})
	}
}
