package preview

// ClientPath is where the preview client script is served.
const ClientPath = "/_cv/client.js"

// SocketPath is the preview WebSocket endpoint.
const SocketPath = "/_cv/ws"

// ClientScript mirrors server renders into the browser and forwards
// interaction events to the server-side document.
const ClientScript = `(function() {
    'use strict';

    var reconnectDelay = 1000;
    var maxReconnectDelay = 30000;
    var ws = null;

    function pathOf(node) {
        var path = [];
        while (node && node !== document.body) {
            var parent = node.parentNode;
            if (!parent) {
                return null;
            }
            path.unshift(Array.prototype.indexOf.call(parent.childNodes, node));
            node = parent;
        }
        return node === document.body ? path : null;
    }

    function forward(e) {
        if (!ws || ws.readyState !== WebSocket.OPEN) {
            return;
        }
        var path = pathOf(e.target);
        if (path === null) {
            return;
        }
        ws.send(JSON.stringify({
            type: 'event',
            event: e.type,
            path: path,
            value: e.target.value !== undefined ? String(e.target.value) : ''
        }));
    }

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        ws = new WebSocket(protocol + '//' + location.host + '` + SocketPath + `');

        ws.onopen = function() {
            reconnectDelay = 1000;
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }

            switch (msg.type) {
                case 'hello':
                case 'render':
                    document.body.innerHTML = msg.html;
                    break;

                case 'error':
                    console.error('[cv]', msg.error);
                    break;
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                reconnectDelay = Math.min(reconnectDelay * 2, maxReconnectDelay);
                connect();
            }, reconnectDelay);
        };

        ws.onerror = function() {
            ws.close();
        };
    }

    ['click', 'input', 'change', 'submit'].forEach(function(type) {
        document.addEventListener(type, forward, true);
    });

    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', connect);
    } else {
        connect();
    }
})();
`
