package rod

const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
</body>
</html>`

	SearchHTML = `<!DOCTYPE html>
<html>
<body>
	<form id="search" onsubmit="event.preventDefault(); document.getElementById('result').textContent = 'searched:' + document.getElementById('q').value;">
		<input id="q" type="text" name="q" placeholder="Search products" />
		<button id="go" type="submit">Search</button>
	</form>
	<div id="result"></div>
</body>
</html>`

	InteractiveHTML = `<!DOCTYPE html>
<html>
<body>
	<button id="btn">Click Me</button>
	<div id="result"></div>
	<script>
		document.getElementById('btn').addEventListener('click', function() {
			document.getElementById('result').textContent = 'Clicked!';
		});
	</script>
</body>
</html>`

	ProductListHTML = `<!DOCTYPE html>
<html>
<body>
	<ul class="products">
		<li><a href="/p/tv-55" aria-label="TV 55">Samsung TV 55"</a> <span class="price">EGP 19,999.00</span></li>
		<li><a href="/p/tv-43">LG TV 43"</a> <span class="price">EGP 12,499.00</span></li>
	</ul>
	<button id="more" role="button">Load more</button>
	<input type="hidden" name="csrf" value="x" />
</body>
</html>`

	ScrollableHTML = `<!DOCTYPE html>
<html>
<body style="height: 5000px;">
	<h1 id="top">Top of Page</h1>
	<div style="margin-top: 2000px;" id="middle">Middle</div>
	<div style="margin-top: 2000px;" id="bottom">Bottom</div>
</body>
</html>`
)
