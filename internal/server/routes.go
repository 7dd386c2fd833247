package server

import (
	"net/http"

	"connectrpc.com/connect"
)

const ServiceName = "dailyexpression.v1.ExpressionService"

const (
	GetDailyExpressionProcedure  = "/" + ServiceName + "/GetDailyExpression"
	GetDueItemsProcedure         = "/" + ServiceName + "/GetDueItems"
	MarkLearnedProcedure         = "/" + ServiceName + "/MarkLearned"
	ReviewItemProcedure          = "/" + ServiceName + "/ReviewItem"
	StartQuizProcedure           = "/" + ServiceName + "/StartQuiz"
	StartDailyChallengeProcedure = "/" + ServiceName + "/StartDailyChallenge"
	SubmitAnswerProcedure        = "/" + ServiceName + "/SubmitAnswer"
	GetStatisticsProcedure       = "/" + ServiceName + "/GetStatistics"
)

// NewServiceHandler returns the path prefix of the service and the handler of
// every procedure, ready to be mounted on a mux.
func NewServiceHandler(h *Handler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(GetDailyExpressionProcedure, connect.NewUnaryHandler(GetDailyExpressionProcedure, h.GetDailyExpression, opts...))
	mux.Handle(GetDueItemsProcedure, connect.NewUnaryHandler(GetDueItemsProcedure, h.GetDueItems, opts...))
	mux.Handle(MarkLearnedProcedure, connect.NewUnaryHandler(MarkLearnedProcedure, h.MarkLearned, opts...))
	mux.Handle(ReviewItemProcedure, connect.NewUnaryHandler(ReviewItemProcedure, h.ReviewItem, opts...))
	mux.Handle(StartQuizProcedure, connect.NewUnaryHandler(StartQuizProcedure, h.StartQuiz, opts...))
	mux.Handle(StartDailyChallengeProcedure, connect.NewUnaryHandler(StartDailyChallengeProcedure, h.StartDailyChallenge, opts...))
	mux.Handle(SubmitAnswerProcedure, connect.NewUnaryHandler(SubmitAnswerProcedure, h.SubmitAnswer, opts...))
	mux.Handle(GetStatisticsProcedure, connect.NewUnaryHandler(GetStatisticsProcedure, h.GetStatistics, opts...))
	return "/" + ServiceName + "/", mux
}

// NewClient returns a connect client for one procedure of the service
func NewClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts ...connect.ClientOption) *connect.Client[Req, Res] {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return connect.NewClient[Req, Res](httpClient, baseURL+procedure, opts...)
}
