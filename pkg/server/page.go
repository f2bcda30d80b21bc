package server

import (
	"html/template"
	"io"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<div id="app">{{.Body}}</div>
<p id="controls">
<button data-op="add">Add stream</button>
<button data-op="clear">Clear streams</button>
<button data-op="reset">Reset streams</button>
</p>
<script>
(function () {
  var app = document.getElementById("app");
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  ws.onmessage = function (ev) {
    var frame = JSON.parse(ev.data);
    app.innerHTML = frame.html;
    app.dataset.seq = frame.seq;
  };
  document.querySelectorAll("#controls button").forEach(function (b) {
    b.addEventListener("click", function () {
      ws.send(JSON.stringify({op: b.dataset.op}));
    });
  });
})();
</script>
</body>
</html>
`))

type pageData struct {
	Title string
	Body  template.HTML
}

// writePage writes the dashboard page around an already escaped body.
func writePage(w io.Writer, title, body string) error {
	return pageTemplate.Execute(w, pageData{Title: title, Body: template.HTML(body)})
}
