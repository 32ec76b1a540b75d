package server

const dashboardTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>brandgraph · Fast Fashion Conversation</title>
  <style>
    *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }

    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      background-color: #f8f9fa;
      color: #212529;
      padding: 1rem 2rem;
    }

    @media (prefers-color-scheme: dark) {
      body { background-color: #1a1a2e; color: #e0e0e0; }
      .panel, .controls select, .controls input, .tabs button { background-color: #2d2d44; color: #e0e0e0; border-color: #444; }
    }

    h1 { margin: 0.5rem 0 1rem; font-size: 1.4rem; font-weight: 600; }

    .controls { display: flex; gap: 0.75rem; flex-wrap: wrap; align-items: center; margin-bottom: 1rem; }
    .controls label { font-size: 0.85rem; }
    .controls select, .controls input {
      padding: 0.35rem 0.6rem; border: 1px solid #ccc; border-radius: 6px; background: #fff; font-size: 0.9rem;
    }

    .tabs { display: flex; gap: 0.25rem; margin-bottom: 1rem; }
    .tabs button {
      padding: 0.45rem 1rem; border: 1px solid #ccc; border-radius: 6px 6px 0 0;
      background: #fff; cursor: pointer; font-size: 0.9rem;
    }
    .tabs button.active { background: #2374ab; color: #fff; border-color: #1a5a8a; }

    .tab { display: none; }
    .tab.active { display: block; }

    .panel { background: #fff; border: 1px solid #ddd; border-radius: 8px; padding: 1rem; margin-bottom: 1rem; }
    .metrics { display: grid; grid-template-columns: repeat(auto-fit, minmax(160px, 1fr)); gap: 1rem; }
    .metric .value { font-size: 1.6rem; font-weight: 600; }
    .metric .name { font-size: 0.8rem; opacity: 0.7; }

    .notice { padding: 0.6rem 1rem; border-radius: 6px; background: #fff3cd; color: #664d03; margin-bottom: 1rem; display: none; }
    .empty { padding: 2rem; text-align: center; opacity: 0.7; }

    #network { height: 650px; border: 1px solid #ddd; border-radius: 8px; background: #222222; }
    table { border-collapse: collapse; width: 100%; }
    th, td { text-align: left; padding: 0.3rem 0.5rem; border-bottom: 1px solid #eee; font-size: 0.9rem; }
  </style>
</head>
<body>
  <h1>brandgraph · Fast Fashion Conversation</h1>

  <div class="controls">
    <label>Brand
      <select id="brand">
        <option value="ALL">All brands</option>
        {{range .Brands}}<option value="{{.}}">{{.}}</option>{{end}}
      </select>
    </label>
    <label>From <input type="date" id="from"></label>
    <label>To <input type="date" id="to"></label>
  </div>

  <div class="tabs">
    <button data-tab="overview" class="active">Overview</button>
    <button data-tab="topics">Topics</button>
    <button data-tab="communities">Communities</button>
    <button data-tab="network">Network</button>
  </div>

  <section class="tab active" id="tab-overview">
    <div class="panel metrics" id="metrics"></div>
    <div class="panel"><canvas id="volume-chart" height="90"></canvas></div>
    <div class="panel"><h3>Most mentioned</h3><table id="top-mentioned"></table></div>
  </section>

  <section class="tab" id="tab-topics">
    <div class="panel"><canvas id="topics-chart" height="110"></canvas></div>
  </section>

  <section class="tab" id="tab-communities">
    <div class="controls">
      <label>Community <select id="community"></select></label>
    </div>
    <div class="panel metrics" id="community-metrics"></div>
    <div class="panel"><h3>Most active members</h3><table id="community-members"></table></div>
    <div class="panel"><canvas id="community-chart" height="110"></canvas></div>
  </section>

  <section class="tab" id="tab-network">
    <div class="notice" id="reduced-notice"></div>
    <div id="network"></div>
  </section>

  <script src="https://cdn.jsdelivr.net/npm/chart.js@4/dist/chart.umd.min.js"></script>
  <script src="https://unpkg.com/vis-network@9/standalone/umd/vis-network.min.js"></script>
  <script>
    (function() {
      var charts = {};
      var network = null;
      var activeTab = 'overview';

      function query() {
        var p = new URLSearchParams();
        p.set('brand', document.getElementById('brand').value);
        var from = document.getElementById('from').value;
        var to = document.getElementById('to').value;
        if (from) p.set('from', from);
        if (to) p.set('to', to);
        return p.toString();
      }

      function get(path) {
        return fetch(path + (path.indexOf('?') < 0 ? '?' : '&') + query()).then(function(r) { return r.json(); });
      }

      function metric(name, value) {
        return '<div class="metric"><div class="value">' + value + '</div><div class="name">' + name + '</div></div>';
      }

      function rows(items, cols) {
        return items.map(function(it) {
          return '<tr>' + cols.map(function(c) { return '<td>' + it[c] + '</td>'; }).join('') + '</tr>';
        }).join('');
      }

      function chart(id, type, labels, values, label) {
        if (charts[id]) charts[id].destroy();
        charts[id] = new Chart(document.getElementById(id), {
          type: type,
          data: { labels: labels, datasets: [{ label: label, data: values, backgroundColor: '#2374ab', borderColor: '#2374ab' }] },
          options: { indexAxis: type === 'bar' ? 'y' : 'x', plugins: { legend: { display: false } } }
        });
      }

      function empty(id) {
        document.getElementById(id).innerHTML = '<div class="empty">No data for the selected filters.</div>';
      }

      function loadOverview() {
        get('/api/overview').then(function(d) {
          if (d.status !== 'ok') { empty('metrics'); document.getElementById('top-mentioned').innerHTML = ''; return; }
          var o = d.overview;
          document.getElementById('metrics').innerHTML =
            metric('Tweets analysed', o.posts) + metric('Unique users', o.uniqueUsers) +
            metric('Interactions', o.interactions) + metric('Network density', o.density.toFixed(4));
          document.getElementById('top-mentioned').innerHTML =
            '<tr><th>Handle</th><th>Mentions</th></tr>' + rows(d.topMentioned || [], ['handle', 'inDegree']);
        });
        get('/api/volume').then(function(d) {
          if (d.status !== 'ok') return;
          chart('volume-chart', 'line', d.days.map(function(x) { return x.day; }), d.days.map(function(x) { return x.count; }), 'Tweets per day');
        });
      }

      function loadTopics() {
        get('/api/topics').then(function(d) {
          if (d.status !== 'ok') return;
          chart('topics-chart', 'bar', d.topics.map(function(x) { return x.label; }), d.topics.map(function(x) { return x.count; }), 'Tweets');
        });
      }

      function loadCommunity() {
        var id = document.getElementById('community').value;
        if (id === '') return;
        get('/api/communities/' + encodeURIComponent(id)).then(function(d) {
          if (d.status !== 'ok') { empty('community-metrics'); document.getElementById('community-members').innerHTML = ''; return; }
          var p = d.profile;
          document.getElementById('community-metrics').innerHTML = metric('Members', p.members) + metric('Tweets', p.posts);
          document.getElementById('community-members').innerHTML =
            '<tr><th>Handle</th><th>Tweets</th></tr>' + rows(p.mostActive, ['handle', 'posts']);
          chart('community-chart', 'bar', p.topicShares.map(function(x) { return x.label; }),
            p.topicShares.map(function(x) { return (x.share * 100).toFixed(1); }), 'Share (%)');
        });
      }

      function loadNetwork() {
        get('/api/graph').then(function(d) {
          var notice = document.getElementById('reduced-notice');
          notice.style.display = 'none';
          if (network) { network.destroy(); network = null; }
          if (d.status !== 'ok') { empty('network'); return; }
          document.getElementById('network').innerHTML = '';
          if (d.reduced) {
            notice.textContent = 'The network has ' + d.originalNodes + ' nodes; showing the most mentioned accounts only.';
            notice.style.display = 'block';
          }
          var nodes = d.view.nodes.map(function(n) {
            return { id: n.id, label: n.label, value: n.size, title: 'Mentions received: ' + n.inDegree };
          });
          var edges = d.view.edges.map(function(e) { return { from: e.from, to: e.to, arrows: 'to' }; });
          network = new vis.Network(document.getElementById('network'),
            { nodes: new vis.DataSet(nodes), edges: new vis.DataSet(edges) },
            { nodes: { shape: 'dot', font: { color: '#ffffff' } }, physics: { stabilization: { iterations: 150 } } });
        });
      }

      var loaders = { overview: loadOverview, topics: loadTopics, communities: loadCommunity, network: loadNetwork };

      function refresh() { loaders[activeTab](); }

      document.querySelectorAll('.tabs button').forEach(function(btn) {
        btn.addEventListener('click', function() {
          document.querySelectorAll('.tabs button').forEach(function(b) { b.classList.remove('active'); });
          document.querySelectorAll('.tab').forEach(function(t) { t.classList.remove('active'); });
          btn.classList.add('active');
          activeTab = btn.getAttribute('data-tab');
          document.getElementById('tab-' + activeTab).classList.add('active');
          refresh();
        });
      });

      ['brand', 'from', 'to'].forEach(function(id) {
        document.getElementById(id).addEventListener('change', refresh);
      });
      document.getElementById('community').addEventListener('change', loadCommunity);

      fetch('/api/filters').then(function(r) { return r.json(); }).then(function(f) {
        if (f.from) { document.getElementById('from').value = f.from; document.getElementById('from').min = f.from; }
        if (f.to) { document.getElementById('to').value = f.to; document.getElementById('to').max = f.to; }
        document.getElementById('community').innerHTML = (f.communities || []).map(function(c) {
          return '<option value="' + c + '">Community ' + c + '</option>';
        }).join('');
        refresh();
      });
    })();
  </script>
</body>
</html>
`
