// Package bridge - "склейка" между игровым сервером (engine.Host) и
// соединением с Discord (Relay). Мост:
//   - пересылает чат игроков в Discord (через вебхук от имени игрока или
//     ботом по шаблону OutboundTemplate);
//   - пересылает сообщения из канала Discord всем игрокам цветными
//     сегментами по шаблону InboundTemplate;
//   - шлёт уведомления о старте/остановке сервера, входе/выходе игроков,
//     переходах между мирами, открытии зон и убийствах (kill feed).
//
// Жизненный цикл:
//   - Создать мост через New(cfg, host, translator): обработчики сразу
//     подписываются на шину движка.
//   - (Опционально) передать соединение: SetRelay(conn). Без него события
//     слушаются, но никуда не уходят.
//   - Start(ctx) запускает подключение.
//   - Stop() - уведомление "сервер остановлен", затем закрытие соединения.
//
// Пример:
//
//	b := bridge.New(store, host, catalog)
//	conn := discord.NewConnection(opts, session, webhook, b.RelayDiscordMessage)
//	b.SetRelay(conn)
//	b.Start(ctx)
//	defer b.Stop()
//
// Уведомление "сервер запущен" уходит ровно один раз за цикл сервера: когда
// сервер загрузился (BootEvent) и бот подключён, в любом порядке.
// StartEvent (перезапуск сервера) начинает новый цикл.
package bridge
