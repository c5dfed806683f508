// Package gateway - минимальный клиент Discord: gateway (websocket) для
// входящих сообщений и REST для канала и отправки.
//
// Client реализует discord.Session.
//
// Жизненный цикл:
//
//	c := gateway.New(token, gateway.WithPresence("Hytale"))
//	c.OnMessage(func(m discord.InboundMessage, meta discord.MessageMeta) { ... })
//	if err := c.Open(ctx); err != nil { ... } // ждёт READY
//	ch, _ := c.ResolveChannel(ctx, "123")
//	_ = c.SendMessage(ctx, ch.ID, "hello")
//	c.Close()
//
// После READY соединение поддерживается heartbeat'ом; при обрыве readLoop
// переподключается с backoff (1s..30s) и заново шлёт IDENTIFY. Ошибка
// авторизации (close 4004) фатальна: переподключения не будет.
package gateway
