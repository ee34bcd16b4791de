package constvars

const (
	ResponseUnknown = "unknown"
)

const (
	ResponseSuccessGetAvailability     = "availability fetched successfully"
	ResponseSuccessReplaceAvailability = "availability replaced successfully"
	ResponseSuccessListServices        = "services fetched successfully"
	ResponseSuccessUpsertService       = "service saved successfully"
	ResponseSuccessDeleteService       = "service deleted successfully"
	ResponseSuccessResolveSlots        = "slots resolved successfully"
	ResponseSuccessRegisterProvider    = "provider registered successfully"
	ResponseSuccessApproveProvider     = "provider approval updated successfully"
	ResponseSuccessSearchProviders     = "providers searched successfully"
	ResponseSuccessNoProvidersFound    = "no results, try a different postal code"
	ResponseSuccessBookingDraft        = "booking draft fetched successfully"
	ResponseSuccessBookingStep         = "booking step saved successfully"
	ResponseSuccessBookingDiscarded    = "booking draft discarded"
	ResponseSuccessBookingConfirmed    = "appointment booked successfully"
	ResponseSuccessFindAppointments    = "appointments fetched successfully"
	ResponseSuccessFindAppointment     = "appointment fetched successfully"
	ResponseSuccessUpdateStatus        = "appointment status updated successfully"
	ResponseSuccessDeleteAppointment   = "appointment deleted successfully"
	ResponseSuccessStatusHistory       = "appointment status history fetched successfully"
	ResponseSuccessStartPayment        = "payment order created successfully"
	ResponseSuccessVerifyPayment       = "payment verified successfully"
	ResponseSuccessPaymentStatus       = "payment status fetched successfully"
	ResponseSuccessPaymentWebhook      = "payment webhook processed successfully"
	ResponseSuccessUploadDocument      = "document uploaded successfully"
	ResponseSuccessGenerateMeetingLink = "meeting link generated successfully"
	ResponseSuccessCreateSession       = "session created successfully"
)
