package handlers

import (
	"log"
	"net/http"

	"gotokenbridge/redis"
)

func GetFailedOperations(w http.ResponseWriter, r *http.Request) {
	getOperations(w, "failed")
}

func GetDeliveredOperations(w http.ResponseWriter, r *http.Request) {
	getOperations(w, "delivered")
}

func getOperations(w http.ResponseWriter, status string) {
	ops, err := redis.FindAllBridgeOperationsByStatus(status)
	if err != nil {
		log.Printf("Error reading %s operations: %s", status, err.Error())
		responseJSON(w, &APIResponse{Status: "error", Message: "Error reading operations"}, http.StatusInternalServerError)
		return
	}
	responseJSON(w, ops, http.StatusOK)
}
