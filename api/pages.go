package api

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// The coordinator's HTTP surface is static rendering only: an index page
// and a per-room page that embed the room id and connect back over /ws.
// Everything stateful happens on the websocket.

func (s *Server) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index", nil)
}

// NewRoom mints a room id and redirects to its page. The room itself is
// created lazily when the first joinRoom event references the id.
func (s *Server) NewRoom(c *gin.Context) {
	c.Redirect(http.StatusFound, "/room/"+uuid.NewString())
}

func (s *Server) RoomPage(c *gin.Context) {
	c.HTML(http.StatusOK, "room", gin.H{
		"RoomID": c.Param("id"),
	})
}

var pageTemplates = func() *template.Template {
	t := template.Must(template.New("index").Parse(indexHTML))
	template.Must(t.New("room").Parse(roomHTML))
	return t
}()

const indexHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<title>Chess Rooms</title>
</head>
<body>
  <h1>Chess Rooms</h1>
  <p>Create a room and share the link. The first two connections play; everyone after that watches.</p>
  <p><a href="/new">New room</a></p>
</body>
</html>`

const roomHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<title>Chess Room</title>
</head>
<body>
  <h1>Room <span id="room">{{.RoomID}}</span></h1>
  <pre id="state"></pre>
  <p id="status"></p>
<script>
(function () {
  var roomId = document.getElementById("room").textContent;
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var socket = new WebSocket(proto + location.host + "/ws");

  function send(type, payload) {
    socket.send(JSON.stringify({ type: type, payload: payload }));
  }

  socket.onopen = function () {
    send("joinRoom", { roomId: roomId });
  };

  socket.onmessage = function (msg) {
    var evt = JSON.parse(msg.data);
    switch (evt.type) {
      case "playerRole":
        document.getElementById("status").textContent =
          "You play " + (evt.payload === "w" ? "white" : "black");
        break;
      case "spectatorRole":
        document.getElementById("status").textContent = "You are spectating";
        break;
      case "broadState":
        document.getElementById("state").textContent = evt.payload;
        break;
      case "gameOver":
      case "error":
        document.getElementById("status").textContent =
          typeof evt.payload === "string" ? evt.payload : evt.payload.message;
        break;
    }
  };
})();
</script>
</body>
</html>`
