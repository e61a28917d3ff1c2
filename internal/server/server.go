package server

// Server объединяет HTTP-серверы, отвечающие за конкретные сущности.
type Server struct {
	PurchaseServer
	SettingsServer
}

func NewServer(
	purchaseServer PurchaseServer,
	settingsServer SettingsServer,
) Server {
	return Server{
		PurchaseServer: purchaseServer,
		SettingsServer: settingsServer,
	}
}
