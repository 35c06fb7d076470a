package jsonrpc

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/gorilla/websocket"
)

type WSRPCFunc struct {
	HttpRPCFunc
}

// NewWSRPCFunc is like NewRPCFunc for methods that want access to the
// websocket connection. The method's first parameter must be a
// *websocket.Conn, it is filled in at call time and is not named in
// paramNamesString.
func NewWSRPCFunc(method interface{}, paramNamesString string) RPCFunc {
	var paramNames []string
	if len(paramNamesString) > 0 {
		paramNames = strings.Split(paramNamesString, ",")
	} else {
		paramNames = []string{}
	}

	rMethod := reflect.TypeOf(method)
	if len(paramNames) != rMethod.NumIn()-1 {
		panic("parameter count mismatch making ethaddr api method")
	}
	signature := []reflect.Type{}
	// first parameter is the websocket connection
	for p := 1; p < rMethod.NumIn(); p++ {
		signature = append(signature, rMethod.In(p))
	}

	return &WSRPCFunc{
		HttpRPCFunc: HttpRPCFunc{
			method:    reflect.ValueOf(method),
			signature: signature,
		},
	}
}

func (w *WSRPCFunc) UnmarshalParamsAndCall(input JsonRpcRequest, conn *websocket.Conn) (resp json.RawMessage, jsonErr *Error) {
	inValues, jsonErr := w.getInputValues(input)
	if jsonErr != nil {
		return resp, jsonErr
	}
	inValues = append([]reflect.Value{reflect.ValueOf(conn)}, inValues...)
	return w.call(inValues)
}
