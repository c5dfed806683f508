// Package hostlink - клиент событийного канала игрового сервера.
//
// Сервер и мост обмениваются бинарными websocket-кадрами: каждый кадр -
// google.protobuf.Struct вида
//
//	{ "seq": 7, "type": "broadcast", "payload": {...}, "error": "" }
//
// События сервера приходят с seq == 0 и публикуются в engine.Bus как
// типизированные события (engine.ChatEvent, engine.DeathEvent, ...).
// Запросы моста (broadcast, ping) несут seq; ответ приходит с тем же seq
// и типом "response".
//
// Client реализует engine.Host. После Connect соединение держится
// app-heartbeat'ом (ping), при обрыве readLoop переподключается с backoff.
package hostlink
