// Package server provides the local preview server for rendered heroes: a
// gallery page, static image serving, and WebSocket live reload.
package server

import (
	"bytes"
	"fmt"
)

// wsPath is where the live reload WebSocket is mounted.
const wsPath = "/__herogen/ws"

// scrollKey holds the gallery's scroll offset across a reload.
const scrollKey = "herogen-scroll"

// reloadScript keeps the gallery in sync with the output directory. On a
// "reload" message it stores the scroll offset and reloads, so a long
// gallery stays on the hero being edited. Format args: nonce, scroll key,
// port, wsPath.
const reloadScript = `<script nonce="%[1]s">
(function() {
  var key = %[2]q;
  var y = sessionStorage.getItem(key);
  if (y !== null) {
    sessionStorage.removeItem(key);
    window.addEventListener("load", function() { window.scrollTo(0, +y); });
  }
  var scheme = location.protocol === "https:" ? "wss://" : "ws://";
  var url = scheme + location.hostname + ":%[3]d%[4]s";
  var delay = 500;
  function connect() {
    var ws = new WebSocket(url);
    ws.onopen = function() { delay = 500; };
    ws.onmessage = function(e) {
      if (e.data !== "reload") return;
      sessionStorage.setItem(key, String(window.scrollY));
      location.reload();
    };
    ws.onclose = function() {
      setTimeout(connect, delay);
      delay = Math.min(delay * 2, 8000);
    };
  }
  connect();
})();
</script>`

// InjectLiveReload adds the reload script to page, tagged with nonce, just
// before the closing body tag (matched case-insensitively) or at the end.
func InjectLiveReload(page []byte, port int, nonce string) []byte {
	script := fmt.Appendf(nil, reloadScript, nonce, scrollKey, port, wsPath)

	at := bytes.LastIndex(bytes.ToLower(page), []byte("</body>"))
	if at < 0 {
		at = len(page)
	}
	out := make([]byte, 0, len(page)+len(script))
	out = append(out, page[:at]...)
	out = append(out, script...)
	return append(out, page[at:]...)
}
