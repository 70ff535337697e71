package routes

import (
	"github.com/gin-gonic/gin"

	"payment-operations-console/internal/apiclient"
	"payment-operations-console/internal/handlers"
	"payment-operations-console/internal/metrics"
	"payment-operations-console/internal/notify"
	"payment-operations-console/internal/progress"
	"payment-operations-console/internal/store"
)

// RegisterRoutes wires every console page onto the gin engine.
func RegisterRoutes(r *gin.Engine, client *apiclient.Client, st *store.SettlementStore, runner *progress.Runner, hub *notify.Hub) {
	settlementHandler := handlers.NewSettlementHandler(st, runner)
	reconHandler := handlers.NewReconciliationHandler(st)
	refundHandler := handlers.NewRefundHandler(client.Refunds(), hub)
	disputeHandler := handlers.NewDisputeHandler(client.Disputes(), hub)
	txnHandler := handlers.NewTxnReconHandler(client.Transactions(), hub)
	webhookHandler := handlers.NewWebhookHandler(client.Webhooks(), hub)
	zoneHandler := handlers.NewZoneHandler(client.Zones(), hub)
	feeHandler := handlers.NewFeeHandler(client.Fees(), hub)
	clientHandler := handlers.NewClientHandler(client.Clients(), hub)
	kycHandler := handlers.NewKYCHandler(client.KYC(), hub)
	complianceHandler := handlers.NewComplianceHandler(client.Compliance(), hub)
	notificationHandler := handlers.NewNotificationHandler(hub)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")

	settlements := api.Group("/settlements")
	{
		settlements.GET("/batches", settlementHandler.ListBatches)
		settlements.POST("/batches", settlementHandler.CreateBatch)
		settlements.GET("/batches/:batchId", settlementHandler.GetBatch)
		settlements.POST("/batches/:batchId/process", settlementHandler.ProcessBatch)
		settlements.GET("/batches/:batchId/progress", settlementHandler.Progress)
		settlements.POST("/batches/:batchId/approve", settlementHandler.ApproveBatch)
		settlements.POST("/batches/:batchId/cancel", settlementHandler.CancelBatch)
		settlements.GET("/batches/:batchId/details", settlementHandler.ListDetails)
		settlements.POST("/details/:settlementId/retry", settlementHandler.RetrySettlement)
		settlements.POST("/bulk-process", settlementHandler.BulkProcess)
		settlements.GET("/statistics", settlementHandler.Statistics)
		settlements.GET("/activities", settlementHandler.Activities)
		settlements.GET("/cycle-distribution", settlementHandler.CycleDistribution)

		settlements.GET("/reconciliations", reconHandler.List)
		settlements.POST("/reconciliations", reconHandler.Create)
		settlements.PUT("/reconciliations/:reconciliationId", reconHandler.Update)
		settlements.POST("/reports", reconHandler.GenerateReport)
		settlements.GET("/reports", reconHandler.ListReports)
		settlements.GET("/reports/:reportId/download", reconHandler.DownloadReport)
		settlements.GET("/export", reconHandler.Export)
	}

	refunds := api.Group("/refunds")
	{
		refunds.GET("", refundHandler.List)
		refunds.GET("/:refundId", refundHandler.Get)
		refunds.POST("/:refundId/approve", refundHandler.Approve)
		refunds.POST("/:refundId/reject", refundHandler.Reject)
		refunds.POST("/:refundId/process", refundHandler.Process)
	}

	disputes := api.Group("/disputes")
	{
		disputes.GET("", disputeHandler.List)
		disputes.GET("/:disputeId", disputeHandler.Get)
		disputes.POST("/:disputeId/transition", disputeHandler.Transition)
		disputes.POST("/:disputeId/evidence", disputeHandler.AddEvidence)
	}

	transactions := api.Group("/transactions")
	{
		transactions.GET("/reconciliation", txnHandler.List)
		transactions.POST("/reconciliation/:recordId/confirm", txnHandler.Confirm)
		transactions.POST("/reconciliation/:recordId/reject", txnHandler.Reject)
		transactions.POST("/reconciliation/:recordId/match", txnHandler.ManualMatch)
	}

	webhooks := api.Group("/webhooks")
	{
		webhooks.GET("", webhookHandler.List)
		webhooks.POST("", webhookHandler.Create)
		webhooks.PUT("/:webhookId", webhookHandler.Update)
		webhooks.DELETE("/:webhookId", webhookHandler.Delete)
		webhooks.GET("/:webhookId/deliveries", webhookHandler.Deliveries)
		webhooks.POST("/:webhookId/test", webhookHandler.TestFire)
	}

	zones := api.Group("/zones")
	{
		zones.GET("", zoneHandler.List)
		zones.POST("", zoneHandler.Create)
		zones.PUT("/:zoneId", zoneHandler.Update)
		zones.DELETE("/:zoneId", zoneHandler.Delete)
	}

	fees := api.Group("/fees")
	{
		fees.GET("", feeHandler.List)
		fees.POST("", feeHandler.Create)
		fees.PUT("/:feeId", feeHandler.Update)
	}

	clients := api.Group("/clients")
	{
		clients.GET("", clientHandler.List)
		clients.GET("/:clientCode", clientHandler.Get)
		clients.PUT("/:clientCode/status", clientHandler.SetStatus)
		clients.GET("/:clientCode/kyc-documents", clientHandler.KYCDocuments)
	}

	kyc := api.Group("/kyc")
	{
		kyc.GET("/documents", kycHandler.ListDocuments)
		kyc.POST("/documents/:documentId/verify", kycHandler.Verify)
		kyc.POST("/documents/:documentId/reject", kycHandler.Reject)
		kyc.GET("/statistics", kycHandler.Statistics)
	}

	compliance := api.Group("/compliance")
	{
		compliance.GET("/alerts", complianceHandler.ListAlerts)
		compliance.PUT("/alerts/:alertId", complianceHandler.UpdateAlert)
	}

	api.GET("/notifications", notificationHandler.Recent)
}
