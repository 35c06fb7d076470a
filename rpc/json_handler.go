package rpc

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/loomnetwork/ethaddr/log"
	"github.com/loomnetwork/ethaddr/rpc/jsonrpc"
)

func RegisterRPCFuncs(mux *http.ServeMux, funcMap map[string]jsonrpc.RPCFunc, logger log.Logger, hub *Hub) {
	mux.HandleFunc("/", func(writer http.ResponseWriter, reader *http.Request) {
		if isWebSocketConnection(reader) {
			if hub == nil {
				http.Error(writer, http.StatusText(http.StatusNotImplemented), http.StatusNotImplemented)
				return
			}
			conn, err := upgrader.Upgrade(writer, reader, nil)
			if err != nil {
				logger.Debug("websocket upgrade failed", "err", err)
				return
			}
			client := &Client{hub: hub, conn: conn, logger: logger, send: make(chan []byte, 256)}
			client.hub.register <- client

			// Allow collection of memory referenced by the caller by doing all work in
			// new goroutines.
			go client.writePump()
			go client.readPump(funcMap)
			return
		}

		body, err := ioutil.ReadAll(reader.Body)
		if err != nil {
			WriteResponse(writer, jsonrpc.JsonRpcErrorResponse{
				Version: "2.0",
				Error:   *jsonrpc.NewErrorf(jsonrpc.EcInternal, "Http error", "error reading message body %v", err),
			})
			return
		}
		logger.Debug("JSON-RPC2 http request", "body", string(body))
		outBytes, jsonErr := handleMessage(body, funcMap, nil)

		if jsonErr != nil {
			WriteResponse(writer, jsonrpc.JsonRpcErrorResponse{
				Version: "2.0",
				Error:   *jsonErr,
			})
			return
		}

		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusOK)
		logger.Debug("JSON-RPC2 http request, result", "response", string(outBytes))
		if _, err := writer.Write(outBytes); err != nil {
			logger.Debug("error writing response", "err", err)
		}
	})
}

func handleMessage(body []byte, funcMap map[string]jsonrpc.RPCFunc, conn *websocket.Conn) ([]byte, *jsonrpc.Error) {
	requestList, isBatch, reqListErr := getRequests(body)
	if reqListErr != nil {
		return nil, reqListErr
	}

	var outputList []interface{}

	for _, jsonRequest := range requestList {
		method, jsonErr := getRequest(jsonRequest, funcMap)
		if jsonErr != nil {
			if jsonRequest.IsNotification() {
				continue
			}
			outputList = append(outputList, jsonrpc.JsonRpcErrorResponse{
				Version: "2.0",
				ID:      jsonRequest.ID,
				Error:   *jsonErr,
			})
			continue
		}

		rawResult, jsonErr := method.UnmarshalParamsAndCall(jsonRequest, conn)
		if jsonRequest.IsNotification() {
			// Notifications run the method but get no reply.
			continue
		}

		if jsonErr != nil {
			outputList = append(outputList, jsonrpc.JsonRpcErrorResponse{
				Version: "2.0",
				ID:      jsonRequest.ID,
				Error:   *jsonErr,
			})
			continue
		}

		resp, jsonErr := method.GetResponse(rawResult, jsonRequest.ID)
		if jsonErr != nil {
			outputList = append(outputList, jsonrpc.JsonRpcErrorResponse{
				Version: "2.0",
				ID:      jsonRequest.ID,
				Error:   *jsonErr,
			})
			continue
		}

		outputList = append(outputList, resp)
	}

	if len(outputList) == 0 {
		return nil, nil
	}

	// A single request gets back a single response object, only real batches
	// come back as an array.
	var output interface{} = outputList
	if !isBatch {
		output = outputList[0]
	}
	outBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, jsonrpc.NewErrorf(jsonrpc.EcServer, "Server error", "error marshalling result %v", err)
	}
	return outBytes, nil
}

func getRequests(message []byte) ([]jsonrpc.JsonRpcRequest, bool, *jsonrpc.Error) {
	var inputList []jsonrpc.JsonRpcRequest
	if err := json.Unmarshal(message, &inputList); err != nil {
		var singleInput jsonrpc.JsonRpcRequest
		if err := json.Unmarshal(message, &singleInput); err != nil {
			return nil, false, jsonrpc.NewErrorf(jsonrpc.EcInvalidRequest, "Invalid request", "error unmarshalling message body %v", err)
		}
		return []jsonrpc.JsonRpcRequest{singleInput}, false, nil
	}
	if len(inputList) == 0 {
		return nil, true, jsonrpc.NewError(jsonrpc.EcInvalidRequest, "Invalid request", "empty batch")
	}
	return inputList, true, nil
}

func isWebSocketConnection(req *http.Request) bool {
	if strings.ToLower(req.Header.Get(http.CanonicalHeaderKey("Connection"))) != "upgrade" {
		return false
	}

	if strings.ToLower(req.Header.Get(http.CanonicalHeaderKey("Upgrade"))) != "websocket" {
		return false
	}

	if req.Method != "GET" {
		return false
	}
	return true
}

func getRequest(input jsonrpc.JsonRpcRequest, funcMap map[string]jsonrpc.RPCFunc) (jsonrpc.RPCFunc, *jsonrpc.Error) {
	method, found := funcMap[input.Method]
	if !found {
		msg := fmt.Sprintf("Method %s not found", input.Method)
		return nil, jsonrpc.NewErrorf(jsonrpc.EcMethodNotFound, msg, "could not find method %v", input.Method)
	}

	return method, nil
}

func WriteResponse(writer http.ResponseWriter, output interface{}) {
	outBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return
	}
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(outBytes)
}
